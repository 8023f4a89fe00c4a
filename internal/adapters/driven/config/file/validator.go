package file

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SettingsValidator = (*Validator)(nil)

// Validator checks settings against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a settings validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate returns an error naming every invalid field.
func (v *Validator) Validate(settings domain.Settings) error {
	err := v.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name: "Settings.OCR.URL" becomes "OCR.URL".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
