package aslflow

import "github.com/petrijr/aslflow/pkg/api"

// Choice conditions, re-exported from pkg/api.

var (
	And = api.And
	Or  = api.Or
	Not = api.Not

	StringEquals            = api.StringEquals
	StringEqualsPath        = api.StringEqualsPath
	StringLessThan          = api.StringLessThan
	StringLessThanEquals    = api.StringLessThanEquals
	StringGreaterThan       = api.StringGreaterThan
	StringGreaterThanEquals = api.StringGreaterThanEquals
	StringMatches           = api.StringMatches

	NumericEquals            = api.NumericEquals
	NumericEqualsPath        = api.NumericEqualsPath
	NumericLessThan          = api.NumericLessThan
	NumericLessThanPath      = api.NumericLessThanPath
	NumericLessThanEquals    = api.NumericLessThanEquals
	NumericGreaterThan       = api.NumericGreaterThan
	NumericGreaterThanPath   = api.NumericGreaterThanPath
	NumericGreaterThanEquals = api.NumericGreaterThanEquals

	BooleanEquals     = api.BooleanEquals
	BooleanEqualsPath = api.BooleanEqualsPath

	TimestampEquals      = api.TimestampEquals
	TimestampLessThan    = api.TimestampLessThan
	TimestampGreaterThan = api.TimestampGreaterThan

	IsPresent    = api.IsPresent
	IsNotPresent = api.IsNotPresent
	IsNull       = api.IsNull
	IsString     = api.IsString
	IsNumeric    = api.IsNumeric
	IsBoolean    = api.IsBoolean
	IsTimestamp  = api.IsTimestamp
)
