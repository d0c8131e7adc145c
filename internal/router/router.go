// Package router resolves human language codes into the codes a translation
// backend expects, and provides display names for them.
package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnsupportedLanguage is returned when a code has no mapping in the active scheme.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Scheme identifies the code system a backend speaks.
type Scheme string

const (
	// SchemeNLLB maps ISO codes to NLLB-200 codes such as "eng_Latn".
	SchemeNLLB Scheme = "nllb"
	// SchemeISO passes through any well-formed BCP 47 tag, normalized.
	SchemeISO Scheme = "iso"
)

// NLLB-200 codes for the languages offered by the text translator.
var nllbCodes = map[string]string{
	"am": "amh_Ethi", "ar": "arb_Arab", "bn": "ben_Beng", "de": "deu_Latn",
	"en": "eng_Latn", "es": "spa_Latn", "fa": "pes_Arab", "fr": "fra_Latn",
	"gu": "guj_Gujr", "ha": "hau_Latn", "he": "heb_Hebr", "hi": "hin_Deva",
	"ht": "hat_Latn", "id": "ind_Latn", "ig": "ibo_Latn", "it": "ita_Latn",
	"ja": "jpn_Jpan", "km": "khm_Khmr", "kn": "kan_Knda", "ko": "kor_Hang",
	"ky": "kir_Cyrl", "lo": "lao_Laoo", "mg": "plt_Latn", "ml": "mal_Mlym",
	"mn": "khk_Cyrl", "ms": "zsm_Latn", "my": "mya_Mymr", "ne": "npi_Deva",
	"nl": "nld_Latn", "pa": "pan_Guru", "pl": "pol_Latn", "ps": "pbt_Arab",
	"pt": "por_Latn", "ru": "rus_Cyrl", "sd": "snd_Arab", "si": "sin_Sinh",
	"sw": "swh_Latn", "ta": "tam_Taml", "te": "tel_Telu", "tg": "tgk_Cyrl",
	"th": "tha_Thai", "tl": "fil_Latn", "tr": "tur_Latn", "ur": "urd_Arab",
	"vi": "vie_Latn", "xh": "xho_Latn", "yo": "yor_Latn", "zh": "zho_Hans",
	"zu": "zul_Latn",
}

// Route is the pair of backend codes for one request.
type Route struct {
	Source string
	Target string
}

// Router resolves language codes for one scheme.
type Router struct {
	scheme Scheme
}

// New creates a Router for the given scheme. Unknown schemes behave like SchemeISO.
func New(scheme Scheme) *Router {
	if scheme != SchemeNLLB {
		scheme = SchemeISO
	}
	return &Router{scheme: scheme}
}

// Scheme returns the code scheme of the router.
func (r *Router) Scheme() Scheme {
	return r.scheme
}

// Normalize lowercases a code and folds "_" into "-" ("pt_BR" -> "pt-br").
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// Code maps one human language code to the backend code.
func (r *Router) Code(lang string) (string, error) {
	norm := Normalize(lang)
	if norm == "" {
		return "", fmt.Errorf("empty language code: %w", ErrUnsupportedLanguage)
	}

	switch r.scheme {
	case SchemeNLLB:
		if code, ok := nllbCodes[norm]; ok {
			return code, nil
		}
		// Regional variants fall back to their base language ("es-mx" -> "es").
		if base, _, ok := strings.Cut(norm, "-"); ok {
			if code, ok := nllbCodes[base]; ok {
				return code, nil
			}
		}
		return "", fmt.Errorf("%s: %w", lang, ErrUnsupportedLanguage)
	default:
		tag, err := language.Parse(norm)
		if err != nil {
			return "", fmt.Errorf("%s: %w", lang, ErrUnsupportedLanguage)
		}
		return tag.String(), nil
	}
}

// Resolve maps a source/target pair, failing before any remote call is made.
func (r *Router) Resolve(source, target string) (Route, error) {
	src, err := r.Code(source)
	if err != nil {
		return Route{}, fmt.Errorf("source language: %w", err)
	}
	tgt, err := r.Code(target)
	if err != nil {
		return Route{}, fmt.Errorf("target language: %w", err)
	}
	return Route{Source: src, Target: tgt}, nil
}

// IsValidPair checks if a language pair can be translated.
func (r *Router) IsValidPair(source, target string) bool {
	if Normalize(source) == Normalize(target) {
		return false
	}
	_, err := r.Resolve(source, target)
	return err == nil
}

// SupportedLanguages returns the sorted list of codes the scheme knows by name.
// SchemeISO accepts any valid tag; it lists the NLLB table as the curated set.
func (r *Router) SupportedLanguages() []string {
	langs := make([]string, 0, len(nllbCodes))
	for lang := range nllbCodes {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Name returns the English display name of a language code, or the code
// itself when it cannot be parsed.
func Name(code string) string {
	tag, err := language.Parse(Normalize(code))
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}
