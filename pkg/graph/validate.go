package graph

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sankey/pkg/errors"
)

// validate is a singleton validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// MaxNodes bounds the size of graphs accepted from external input.
const MaxNodes = 10_000

// Validate checks a decoded graph before conversion: required fields, node
// ID safety, JSON-encodable metadata and size limits. Graph rules (unknown references, self loops,
// link values, cycles) are checked by package flow.
func Validate(gj Graph) error {
	if err := validate.Struct(gj); err != nil {
		return formatValidationError(err)
	}
	if len(gj.Nodes) > MaxNodes {
		return errors.New(errors.ErrCodeInvalidInput, "too many nodes: %d (max %d)", len(gj.Nodes), MaxNodes)
	}
	for i := range gj.Nodes {
		if err := errors.ValidateNodeID(gj.Nodes[i].ID); err != nil {
			return err
		}
		if err := validateMeta(gj.Nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateMeta rejects metadata the JSON encoder cannot represent, such as
// the non-string-keyed maps YAML produces for numeric keys.
func validateMeta(n Node) error {
	if len(n.Meta) == 0 {
		return nil
	}
	if _, err := json.Marshal(n.Meta); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q: metadata is not JSON-encodable", n.ID)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid graph")
	}

	// Report the first failure only.
	e := validationErrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidInput, "%s: field is required", field)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s: validation failed (%s)", field, e.Tag())
	}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	return errors.Classify(fmt.Errorf("invalid graph: %w", err))
}
