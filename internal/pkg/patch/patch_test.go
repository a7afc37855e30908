package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/pkg/apperr"
)

type shape struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
	Salary   *int    `json:"salary"`
}

func body(t *testing.T, s string) Body {
	t.Helper()
	var b Body
	require.NoError(t, json.Unmarshal([]byte(s), &b))
	return b
}

func TestCheckKeys(t *testing.T) {
	err := body(t, `{}`).CheckKeys("name")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "no valid fields to update", verr.Fields["body"])

	err = body(t, `{"name":"x","owner":"y"}`).CheckKeys("name")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"owner": "unknown field"}, verr.Fields)

	assert.NoError(t, body(t, `{"name":"x"}`).CheckKeys("name", "location"))
}

func TestMerge(t *testing.T) {
	loc := "Berlin"
	salary := 10
	base := shape{Name: "Acme", Location: &loc, Salary: &salary}

	var out shape
	require.NoError(t, Merge(base, body(t, `{"name":"Globex","location":null}`), &out))

	assert.Equal(t, "Globex", out.Name)
	assert.Nil(t, out.Location)
	require.NotNil(t, out.Salary)
	assert.Equal(t, 10, *out.Salary)
}

func TestMerge_TypeMismatch(t *testing.T) {
	var out shape
	err := Merge(shape{Name: "Acme"}, body(t, `{"salary":"lots"}`), &out)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "salary")
}
