package i18n

import (
	"net/http/httptest"
	"testing"

	"emporia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products/products", nil)
	assert.Equal(t, "en", Resolve(r))

	r = httptest.NewRequest("GET", "/api/products/products?lang=zh", nil)
	assert.Equal(t, "zh", Resolve(r))

	r = httptest.NewRequest("GET", "/api/products/products?lang=fr", nil)
	assert.Equal(t, "en", Resolve(r), "unsupported ?lang falls through")

	r = httptest.NewRequest("GET", "/api/products/products", nil)
	r.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	assert.Equal(t, "zh", Resolve(r))

	r = httptest.NewRequest("GET", "/api/products/products?lang=en", nil)
	r.Header.Set("Accept-Language", "zh-CN")
	assert.Equal(t, "en", Resolve(r), "?lang wins over the header")
}

func sampleProduct() models.Product {
	return models.Product{
		ProductID:   "p1",
		Name:        "Wireless Mouse",
		Description: "A mouse",
		Category:    "Electronics",
		Price:       19.99,
		Enabled:     true,
		Images:      []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"},
		Attributes: map[string][]string{
			"Color": {"Red", "Blue"},
			"Size":  {"S", "M"},
		},
		Translations: map[string]models.Translation{
			"zh": {
				Name: "无线鼠标",
				AttributeKeys: map[string]string{
					"Color": "颜色",
					"Ghost": "幽灵",
				},
				AttributeValues: map[string][]string{
					"Color": {"红色", "蓝色"},
				},
			},
		},
	}
}

func TestProjectProductBaseLocale(t *testing.T) {
	p := sampleProduct()
	view := ProjectProduct(p, "en")

	assert.Equal(t, "Wireless Mouse", view.Name)
	assert.Equal(t, p.Attributes, view.Attributes)
	assert.Equal(t, p.Attributes, view.BaseAttributes)
	assert.Equal(t, "/uploads/products/a.jpg", view.Image)
}

func TestProjectProductTranslated(t *testing.T) {
	view := ProjectProduct(sampleProduct(), "zh")

	assert.Equal(t, "无线鼠标", view.Name)
	assert.Equal(t, "A mouse", view.Description, "missing fields fall back to base")
	assert.Equal(t, "Electronics", view.Category)

	require.Contains(t, view.Attributes, "颜色")
	assert.Equal(t, []string{"红色", "蓝色"}, view.Attributes["颜色"])
	// Size has no translation registered; base key and values pass through.
	assert.Equal(t, []string{"S", "M"}, view.Attributes["Size"])
	// Keys that exist only in the translation never surface.
	assert.NotContains(t, view.Attributes, "幽灵")

	assert.Equal(t, sampleProduct().Attributes, view.BaseAttributes)
}

func TestProjectProductUnknownLocale(t *testing.T) {
	view := ProjectProduct(sampleProduct(), "fr")
	assert.Equal(t, "Wireless Mouse", view.Name)
	assert.Equal(t, sampleProduct().Attributes, view.Attributes)
}

func TestProjectProductNoImages(t *testing.T) {
	p := sampleProduct()
	p.Images = nil
	view := ProjectProduct(p, "en")
	assert.Empty(t, view.Image)
	assert.NotNil(t, view.Images)
}
