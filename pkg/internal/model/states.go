package model

import "slices"

// States 可用的美国州代码.
var States = []string{
	"AL", "AK", "AS", "AZ", "AR", "CA", "CO", "CT", "DE", "DC",
	"FM", "FL", "GA", "GU", "HI", "ID", "IL", "IN", "IA", "KS",
	"KY", "LA", "ME", "MH", "MD", "MA", "MI", "MN", "MS", "MO",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "MP",
	"OH", "OK", "OR", "PW", "PA", "PR", "RI", "SC", "SD", "TN",
	"TX", "UT", "VT", "VI", "VA", "WA", "WV", "WI", "WY",
}

// IsState 判断 code 是否为合法州代码.
func IsState(code string) bool {
	return slices.Contains(States, code)
}
