package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/lakedeck/lakedeck/types"
)

// Validator checks a submitted connection form and reports failures as
// field-scoped messages. Paths address the submitted JSON document, with
// stream failures keyed by position, e.g.
// syncCatalog.streams[2].config.primaryKey.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// messages for the rules that have no struct tag of their own
var customMessages = map[string]string{
	"primary_key_required":  "primary key is required when the destination sync mode deduplicates",
	"cursor_field_required": "cursor field is required for incremental syncs without a source-defined cursor",
	"sync_mode_supported":   "sync mode must be one of the stream's supported modes",
	"required_if":           "{0} is a required field",
}

func NewValidator() (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %s", err)
	}

	for tag, message := range customMessages {
		if err := registerMessage(validate, trans, tag, message); err != nil {
			return nil, fmt.Errorf("failed to register %s translation: %s", tag, err)
		}
	}

	validate.RegisterStructValidation(streamRules, types.ConfiguredStream{})

	return &Validator{
		validate: validate,
		trans:    trans,
	}, nil
}

// Translator exposes the validator's locale translator so callers can build
// other translated content (frequency labels) with the same instance.
func (v *Validator) Translator() ut.Translator {
	return v.trans
}

// ValidateForm runs the declarative schema over the submitted values, plus
// the destination capability checks when capabilities are given. Invalid
// input is reported through the result, never through the error; the error
// is reserved for the validator itself failing to run.
func (v *Validator) ValidateForm(values *Values, capabilities *types.DestinationCapabilities) (*types.ValidationResult, error) {
	result := &types.ValidationResult{}

	if err := v.validate.Struct(values); err != nil {
		invalid, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("form validation failed to run: %s", err)
		}
		for _, fieldError := range invalid {
			result.Errors = append(result.Errors, types.FieldError{
				Path:    trimRootNamespace(fieldError.Namespace()),
				Message: fieldError.Translate(v.trans),
			})
		}
	}

	result.Errors = append(result.Errors, capabilityErrors(values, capabilities)...)
	result.Valid = len(result.Errors) == 0

	return result, nil
}

// streamRules enforces the conditional requirements on selected streams.
// Unselected streams are never reported; an unset sync mode is the deriver's
// problem, not the user's.
func streamRules(sl validator.StructLevel) {
	configured := sl.Current().Interface().(types.ConfiguredStream)
	config := configured.Config
	if !config.Selected {
		return
	}

	if config.DestinationSyncMode == types.APPENDDEDUP && len(config.PrimaryKey) == 0 {
		sl.ReportError(config.PrimaryKey, "config.primaryKey", "Config.PrimaryKey", "primary_key_required", "")
	}

	sourceDefinedCursor := configured.Stream != nil && configured.Stream.SourceDefinedCursor
	if config.SyncMode == types.INCREMENTAL && !sourceDefinedCursor && len(config.CursorField) == 0 {
		sl.ReportError(config.CursorField, "config.cursorField", "Config.CursorField", "cursor_field_required", "")
	}

	if config.SyncMode != "" && configured.Stream != nil && !configured.Stream.SupportedSyncModes.Exists(config.SyncMode) {
		sl.ReportError(config.SyncMode, "config.syncMode", "Config.SyncMode", "sync_mode_supported", "")
	}
}

func capabilityErrors(values *Values, capabilities *types.DestinationCapabilities) []types.FieldError {
	if capabilities == nil {
		return nil
	}

	var errs []types.FieldError
	if !capabilities.SupportsNormalization && values.Normalization != "" && values.Normalization != types.RAW {
		errs = append(errs, types.FieldError{
			Path:    "normalization",
			Message: "destination does not support normalization",
		})
	}
	if !capabilities.SupportsDbt && len(values.Transformations) > 0 {
		errs = append(errs, types.FieldError{
			Path:    "transformations",
			Message: "destination does not support custom transformations",
		})
	}

	return errs
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, message string) error {
	return validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			translated, err := ut.T(tag, fe.Field())
			if err != nil {
				return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
			}

			return translated
		},
	)
}

// trimRootNamespace drops the root struct segment so paths address the
// submitted document itself.
func trimRootNamespace(namespace string) string {
	if idx := strings.Index(namespace, "."); idx != -1 {
		return namespace[idx+1:]
	}

	return namespace
}
