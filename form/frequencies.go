package form

import (
	"fmt"
	"sync"

	"github.com/go-playground/locales"
	ut "github.com/go-playground/universal-translator"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// FrequencyOption is one display-ready entry of the schedule dropdown; a nil
// Schedule is the manual entry.
type FrequencyOption struct {
	Schedule *types.Schedule `json:"schedule"`
	Label    string          `json:"label"`
}

var (
	presetsOnce   sync.Once
	loadedPresets []*types.Schedule

	frequencyMu    sync.Mutex
	frequencyCache = map[ut.Translator][]FrequencyOption{}
)

// Frequencies builds the schedule dropdown for one locale. A nil preset
// renders as the translated manual entry; the rest interpolate the unit
// count with the locale's cardinal plural rules ("Every 5 minutes",
// "Every hour"). The result is cached per translator identity; the builder
// itself cannot fail, untranslatable entries fall back to plain text.
func Frequencies(trans ut.Translator) []FrequencyOption {
	frequencyMu.Lock()
	defer frequencyMu.Unlock()

	if cached, exists := frequencyCache[trans]; exists {
		return cached
	}

	registerFrequencyMessages(trans)

	options := make([]FrequencyOption, 0, len(presets()))
	for _, schedule := range presets() {
		options = append(options, FrequencyOption{
			Schedule: schedule,
			Label:    frequencyLabel(trans, schedule),
		})
	}

	frequencyCache[trans] = options

	return options
}

// presets returns the configured schedule list, loaded once: the file behind
// FREQUENCIES_PATH when set, the stock list otherwise.
func presets() []*types.Schedule {
	presetsOnce.Do(func() {
		loadedPresets = defaultPresets()

		path := viper.GetString(constants.FrequenciesPath)
		if path == "" {
			return
		}

		fromFile, err := loadPresetsFromFile(path)
		if err != nil {
			logger.Warnf("failed to load frequency presets from %s: %s", path, err)
			return
		}
		loadedPresets = fromFile
	})

	return loadedPresets
}

func loadPresetsFromFile(path string) ([]*types.Schedule, error) {
	var file struct {
		Frequencies []*types.Schedule `json:"frequencies"`
	}
	if err := utils.UnmarshalFile(path, &file, false); err != nil {
		return nil, err
	}
	if len(file.Frequencies) == 0 {
		return nil, fmt.Errorf("no frequencies listed in %s", path)
	}

	return file.Frequencies, nil
}

// defaultPresets mirrors the platform's stock dropdown: manual first, then
// sub-hourly and hourly cadences.
func defaultPresets() []*types.Schedule {
	return []*types.Schedule{
		nil,
		{Units: 5, TimeUnit: types.MINUTES},
		{Units: 15, TimeUnit: types.MINUTES},
		{Units: 30, TimeUnit: types.MINUTES},
		{Units: 1, TimeUnit: types.HOURS},
		{Units: 2, TimeUnit: types.HOURS},
		{Units: 3, TimeUnit: types.HOURS},
		{Units: 6, TimeUnit: types.HOURS},
		{Units: 8, TimeUnit: types.HOURS},
		{Units: 12, TimeUnit: types.HOURS},
		{Units: 24, TimeUnit: types.HOURS},
	}
}

func registerFrequencyMessages(trans ut.Translator) {
	_ = trans.Add("frequency.manual", "Manual", true)

	singular := map[types.ScheduleTimeUnit]string{
		types.MINUTES: "Every minute",
		types.HOURS:   "Every hour",
		types.DAYS:    "Every day",
		types.WEEKS:   "Every week",
		types.MONTHS:  "Every month",
	}
	plural := map[types.ScheduleTimeUnit]string{
		types.MINUTES: "Every {0} minutes",
		types.HOURS:   "Every {0} hours",
		types.DAYS:    "Every {0} days",
		types.WEEKS:   "Every {0} weeks",
		types.MONTHS:  "Every {0} months",
	}

	for unit, text := range singular {
		_ = trans.Add(frequencyKey(unit)+".one", text, true)
	}
	for unit, text := range plural {
		_ = trans.AddCardinal(frequencyKey(unit), text, locales.PluralRuleOther, true)
	}
}

func frequencyKey(unit types.ScheduleTimeUnit) string {
	return "frequency." + string(unit)
}

func frequencyLabel(trans ut.Translator, schedule *types.Schedule) string {
	if schedule == nil {
		if label, err := trans.T("frequency.manual"); err == nil {
			return label
		}

		return "Manual"
	}

	key := frequencyKey(schedule.TimeUnit)
	units := float64(schedule.Units)

	if trans.CardinalPluralRule(units, 0) == locales.PluralRuleOne {
		if label, err := trans.T(key + ".one"); err == nil {
			return label
		}
	}
	if label, err := trans.C(key, units, 0, trans.FmtNumber(units, 0)); err == nil {
		return label
	}

	return fmt.Sprintf("Every %d %s", schedule.Units, schedule.TimeUnit)
}
