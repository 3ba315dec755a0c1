package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conditionJSON(t *testing.T, c Condition) string {
	t.Helper()
	require.NoError(t, c.validate())
	b, err := c.render().MarshalJSON()
	require.NoError(t, err)
	return string(b)
}

func TestConditions_Render(t *testing.T) {
	cases := []struct {
		name string
		cond Condition
		want string
	}{
		{"string equals", StringEquals("$.s", "a"), `{"Variable":"$.s","StringEquals":"a"}`},
		{"string path", StringEqualsPath("$.s", "$.t"), `{"Variable":"$.s","StringEqualsPath":"$.t"}`},
		{"numeric", NumericLessThanEquals("$.n", 1.5), `{"Variable":"$.n","NumericLessThanEquals":1.5}`},
		{"boolean", BooleanEquals("$.b", true), `{"Variable":"$.b","BooleanEquals":true}`},
		{"timestamp", TimestampGreaterThan("$.at", "2026-01-01T00:00:00Z"), `{"Variable":"$.at","TimestampGreaterThan":"2026-01-01T00:00:00Z"}`},
		{"is not present", IsNotPresent("$.x"), `{"Variable":"$.x","IsPresent":false}`},
		{"matches", StringMatches("$.f", "*.csv"), `{"Variable":"$.f","StringMatches":"*.csv"}`},
		{
			"compound",
			And(IsPresent("$.x"), Not(IsNull("$.x"))),
			`{"And":[{"Variable":"$.x","IsPresent":true},{"Not":{"Variable":"$.x","IsNull":true}}]}`,
		},
		{
			"or",
			Or(NumericEquals("$.n", 1), NumericEquals("$.n", 2)),
			`{"Or":[{"Variable":"$.n","NumericEquals":1},{"Variable":"$.n","NumericEquals":2}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, conditionJSON(t, tc.cond))
		})
	}
}

func TestConditions_Validate(t *testing.T) {
	assert.Error(t, StringEquals("s", "a").validate(), "variable must be a path")
	assert.Error(t, NumericGreaterThanPath("$.n", "limit").validate(), "path operand must be a path")
	assert.Error(t, And().validate())
	assert.Error(t, Or(IsString("$.a"), nil).validate())
	assert.Error(t, Not(nil).validate())
	assert.Error(t, And(IsBoolean("$.a"), Not(IsTimestamp("a"))).validate())

	assert.NoError(t, Or(IsNumeric("$.a"), IsString("$.a")).validate())
}
