package i18n

import (
	"net/http"

	"emporia/models"

	"golang.org/x/text/language"
)

var SupportedLanguages = []string{"en", "zh"}

const DefaultLanguage = "en"

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Chinese,
})

// Resolve picks the display locale for a request: explicit ?lang= first,
// then Accept-Language, then the default.
func Resolve(r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q != "" {
		for _, lang := range SupportedLanguages {
			if q == lang {
				return q
			}
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf > language.No {
				return SupportedLanguages[idx]
			}
		}
	}

	return DefaultLanguage
}

// ProjectProduct renders a product for one locale. The base record decides
// which attribute keys exist; translated keys and value lists substitute
// only where registered. BaseAttributes always carries the untranslated map
// so callers can keep filtering against base keys.
func ProjectProduct(p models.Product, lang string) models.ProductView {
	view := models.ProductView{
		ProductID:          p.ProductID,
		ProductNumber:      p.ProductNumber,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		Price:              p.Price,
		Enabled:            p.Enabled,
		Images:             p.Images,
		Slug:               p.Slug,
		Attributes:         copyAttributes(p.Attributes),
		BaseAttributes:     copyAttributes(p.Attributes),
		AverageRating:      p.AverageRating,
		ReviewCount:        p.ReviewCount,
		RatingDistribution: p.RatingDistribution,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if view.Images == nil {
		view.Images = []string{}
	}
	if len(view.Images) > 0 {
		view.Image = view.Images[0]
	}

	if lang == "" || lang == DefaultLanguage {
		return view
	}
	tr, ok := p.Translations[lang]
	if !ok {
		return view
	}

	if tr.Name != "" {
		view.Name = tr.Name
	}
	if tr.Description != "" {
		view.Description = tr.Description
	}
	if tr.Category != "" {
		view.Category = tr.Category
	}

	translated := make(map[string][]string, len(p.Attributes))
	for baseKey, baseValues := range p.Attributes {
		key := baseKey
		if tk, ok := tr.AttributeKeys[baseKey]; ok && tk != "" {
			key = tk
		}
		values := baseValues
		if tv, ok := tr.AttributeValues[baseKey]; ok && len(tv) > 0 {
			values = tv
		}
		translated[key] = values
	}
	view.Attributes = translated

	return view
}

func copyAttributes(attrs map[string][]string) map[string][]string {
	out := make(map[string][]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
