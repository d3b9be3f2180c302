// Package i18n maps pipeline error codes to localized caller-facing
// replies. Classification keys on the explicit code produced by the
// failing stage; message text is never sniffed.
package i18n

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// GenericCode is the collapsed caller-facing code for every non-input
// failure. Internal codes and diagnostic detail stay in the logs.
const GenericCode = "ANALYSIS_FAILED"

// Reply is the caller-facing error tuple
type Reply struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// Catalog holds one translator per supported language with every
// message registered at construction. Read-only after New.
type Catalog struct {
	uni *ut.UniversalTranslator
}

// messages is the fixed lookup table, per code per language
var messages = map[string]map[string]string{
	string(domain.CodeTextTooShort): {
		"en": "Text must be at least 10 characters long.",
		"ru": "Текст должен содержать не менее 10 символов.",
	},
	string(domain.CodeTextTooLong): {
		"en": "Text must not exceed 2000 characters.",
		"ru": "Текст не должен превышать 2000 символов.",
	},
	string(domain.CodeInvalidLanguage): {
		"en": "Unsupported language. Use ru or en.",
		"ru": "Неподдерживаемый язык. Используйте ru или en.",
	},
	GenericCode: {
		"en": "Analysis failed. Please try again later.",
		"ru": "Не удалось выполнить анализ. Попробуйте позже.",
	},
}

// New builds the catalog with Russian as the fallback locale
func New() (*Catalog, error) {
	ruLoc := ru.New()
	uni := ut.New(ruLoc, ruLoc, en.New())

	for _, lang := range []string{"ru", "en"} {
		trans, found := uni.GetTranslator(lang)
		if !found {
			return nil, fmt.Errorf("translator %q not registered", lang)
		}
		for code, byLang := range messages {
			if err := trans.Add(code, byLang[lang], false); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", lang, code, err)
			}
		}
	}
	return &Catalog{uni: uni}, nil
}

// Classify maps a pipeline failure to its caller-facing reply. Input
// errors keep their specific code and message; everything else
// collapses to the generic failure. An invalid or unknown language
// falls back to Russian.
func (c *Catalog) Classify(err error, lang domain.Language) Reply {
	code := domain.CodeOf(err)

	facing := GenericCode
	if domain.InputCode(code) {
		facing = string(code)
	}

	language := string(lang)
	trans, found := c.uni.GetTranslator(language)
	if !found {
		language = string(domain.DefaultLanguage)
		trans = c.uni.GetFallback()
	}

	msg, terr := trans.T(facing)
	if terr != nil {
		// unknown code: collapse to the generic failure message
		msg, _ = trans.T(GenericCode)
	}
	return Reply{Error: facing, Message: msg, Language: language}
}
