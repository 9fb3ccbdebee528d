package form

import (
	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
)

// MapOperations maps submitted form state back to the persisted operation
// list. The raw sentinel drops the normalization operation entirely;
// otherwise the previously persisted normalization operation is reused
// unchanged so its identity and metadata survive the edit, and one is minted
// only when none exists. Custom transformations follow in their submitted
// order; the execution system depends on normalization running first.
//
// The existing list is never mutated. Transformations submitted without an
// id are treated as new and get one stamped in place.
func MapOperations(values Values, existing []*types.Operation, workspaceID string) []*types.Operation {
	operations := make([]*types.Operation, 0, len(values.Transformations)+1)

	if values.Normalization != "" && values.Normalization != types.RAW {
		idx, found := utils.ArrayContains(existing, func(operation *types.Operation) bool {
			return operation.IsNormalization()
		})
		if found {
			operations = append(operations, existing[idx])
		} else {
			operations = append(operations, &types.Operation{
				OperationID: utils.ULID(),
				WorkspaceID: workspaceID,
				Name:        constants.DefaultNormalizationName,
				OperatorConfiguration: types.OperatorConfiguration{
					OperatorType:  types.OperatorNormalization,
					Normalization: &types.Normalization{Option: values.Normalization},
				},
			})
		}
	}

	for _, transformation := range values.Transformations {
		if transformation.OperationID == "" {
			transformation.OperationID = utils.ULID()
		}
		if transformation.WorkspaceID == "" {
			transformation.WorkspaceID = workspaceID
		}
		operations = append(operations, transformation)
	}

	return operations
}
