package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdictBareJSON(t *testing.T) {
	v, err := ParseVerdict(`{"status":"diseased","disease":"Early Blight","confidence":92.5,"analysis":"Concentric rings on lower leaves."}`)
	require.NoError(t, err)
	assert.Equal(t, "diseased", v.Status)
	assert.Equal(t, "Early Blight", v.Disease)
	assert.Equal(t, 92.5, v.Confidence)
	assert.Equal(t, "Concentric rings on lower leaves.", v.Analysis)
}

func TestParseVerdictMarkdownFence(t *testing.T) {
	content := "Here is my assessment:\n```json\n{\"status\": \"healthy\", \"disease\": \"none\", \"confidence\": 97, \"analysis\": \"Uniform green color, no lesions.\"}\n```\nLet me know if you need more detail."
	v, err := ParseVerdict(content)
	require.NoError(t, err)
	assert.Equal(t, "healthy", v.Status)
	assert.Equal(t, "none", v.Disease)
	assert.Equal(t, float64(97), v.Confidence)
}

func TestParseVerdictNestedBraces(t *testing.T) {
	content := `prefix {"status":"diseased","disease":"Leaf Mold","confidence":80,"analysis":"patches {dense} underside"} suffix`
	v, err := ParseVerdict(content)
	require.NoError(t, err)
	assert.Equal(t, "Leaf Mold", v.Disease)
}

func TestParseVerdictRejectsGarbage(t *testing.T) {
	for _, content := range []string{
		"",
		"the plant looks fine to me",
		"{ not json at all }",
		`{"status":"uncertain","disease":"none","confidence":10,"analysis":""}`,
		"unbalanced { brace",
	} {
		_, err := ParseVerdict(content)
		assert.True(t, errors.Is(err, ErrMalformedReply), "ParseVerdict(%q) error = %v", content, err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONObject(`x {"a":1} y`))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSONObject(`{"a":{"b":2}} trailing {"c":3}`))
	assert.Equal(t, "", extractJSONObject("no braces here"))
	assert.Equal(t, "", extractJSONObject("open { only"))
}
