package analysis

import (
	"github.com/go-playground/validator/v10"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// validate is shared by all invocations; validator.Validate is safe for
// concurrent use and is configured once.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks raw input before any resource is acquired.
// Length limits count runes, not bytes, so Cyrillic text is measured
// correctly. An empty language defaults to ru.
func ValidateRequest(text string, language string) (domain.Request, error) {
	if language == "" {
		language = string(domain.DefaultLanguage)
	}
	req := domain.Request{Text: text, Language: domain.Language(language)}

	err := validate.Struct(req)
	if err == nil {
		return req, nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return domain.Request{}, domain.Wrap(domain.CodeUnknown, err, "request validation")
	}

	// Classify on the failed struct field and tag, never on message text
	fe := errs[0]
	switch fe.StructField() {
	case "Text":
		if fe.Tag() == "max" {
			return domain.Request{}, &domain.Error{Code: domain.CodeTextTooLong, Field: "text"}
		}
		return domain.Request{}, &domain.Error{Code: domain.CodeTextTooShort, Field: "text"}
	case "Language":
		return domain.Request{}, &domain.Error{Code: domain.CodeInvalidLanguage, Field: "language"}
	}
	return domain.Request{}, domain.Wrap(domain.CodeUnknown, err, "request validation")
}
