package diag

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// arabic holds the Arabic renderings of templates. Templates without an
// entry fall back to English.
var arabic = map[string]string{
	"lex.unterminated_string":  "سلسلة نصية غير منتهية",
	"lex.unexpected_char":      "حرف غير متوقع %q",
	"lex.malformed_number":     "عدد غير صالح %s: %s",
	"lex.unknown_escape":       "تسلسل هروب غير معروف: \\%c",
	"lex.unterminated_comment": "تعليق كتلة غير منتهٍ",

	"parse.expected":         "متوقع %s، وُجد %s",
	"parse.expected_expr":    "متوقع تعبير، وُجد %s",
	"parse.expected_type":    "متوقع نوع، وُجد %s",
	"parse.reserved_keyword": "%s كلمة محجوزة وغير مدعومة",

	"check.undefined_symbol":    "رمز غير معرّف: %s",
	"check.mismatched_operands": "أنواع غير متطابقة %s و %s للمعامل %s",
	"check.cannot_use":          "لا يمكن استخدام %s كـ %s في %s",
	"check.missing_field":       "الحقل %s مفقود في قيمة %s",
	"check.unknown_field":       "حقل غير معروف %s في الهيكل %s",
	"check.wrong_arg_count":     "عدد وسائط خاطئ في استدعاء %s: المتوقع %d، الموجود %d",
	"check.non_bool_condition":  "شرط غير منطقي في جملة %s: %s",
	"check.redeclared":          "%s معرّف مسبقاً في هذا النطاق",

	"note.declared_here": "%s معرّف هنا",
	"fix.did_you_mean":   "هل تقصد %s؟",
}

var buildCatalog = sync.OnceValue(func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	templatesMu.RLock()
	defer templatesMu.RUnlock()
	for id, t := range templates {
		if err := b.SetString(language.English, id, t.English); err != nil {
			panic(err)
		}
	}
	for id, msg := range arabic {
		if err := b.SetString(language.Arabic, id, msg); err != nil {
			panic(err)
		}
	}
	return b
})

// Localizer renders diagnostic messages in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// English returns the mandatory fallback localizer.
var English = sync.OnceValue(func() *Localizer {
	return NewLocalizer("en")
})

// NewLocalizer returns a localizer for the given language code. Unknown or
// malformed codes yield an English localizer.
func NewLocalizer(lang string) *Localizer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(buildCatalog())),
	}
}

// Tag returns the language of l.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Sprintf renders the template id with args. The English format of the
// template is used when l's language has no translation.
func (l *Localizer) Sprintf(id string, args ...any) string {
	fallback := id
	if t, ok := Lookup(id); ok {
		fallback = t.English
	}
	return l.printer.Sprintf(message.Key(id, fallback), args...)
}

// Message renders the primary message of d.
func (l *Localizer) Message(d Diagnostic) string {
	return l.Sprintf(d.ID, d.Args...)
}
