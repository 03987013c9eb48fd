package i18n

import "strings"

// Translator retrieves localized messages for failed-validation codes.
// data provides values to embed in the message (for example, "field" or
// "min"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Field-level
// codes (required, not_empty, invalid_type) name the field; codes produced by
// reusable predicates do not, since a predicate never sees its field name.
type dictTranslator struct{ lang string }

var catalogs = map[string]map[string]string{
	"en": {
		"required":      "required value of field {field} is missing",
		"not_empty":     "field {field} must not be empty",
		"invalid_type":  "invalid type for field {field}",
		"too_short":     "must have at least {min} items or characters",
		"too_long":      "must have at most {max} items or characters",
		"too_small":     "must be at least {min}",
		"too_big":       "must be at most {max}",
		"not_positive":  "must be greater than 0",
		"pattern":       "must match {pattern}",
		"invalid_enum":  "must be one of {values}",
		"uniqueness":    "duplicate value {key}",
		"business_rule": "is invalid",
	},
	"ru": {
		"required":      "Не указано обязательное значение поля {field}",
		"not_empty":     "В поле {field} должно быть указано непустое значение",
		"invalid_type":  "Некорректный тип значения поля {field}",
		"too_short":     "должно содержать не меньше {min} элементов или символов",
		"too_long":      "должно содержать не больше {max} элементов или символов",
		"too_small":     "должно быть не меньше {min}",
		"too_big":       "должно быть не больше {max}",
		"not_positive":  "должно быть больше 0",
		"pattern":       "должно соответствовать шаблону {pattern}",
		"invalid_enum":  "должно быть одним из {values}",
		"uniqueness":    "повторяющееся значение {key}",
		"business_rule": "некорректное значение",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalogs[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ru").
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
