package parser

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/grove/groovy/token"
)

// Feature names a construct that only exists from some grammar version on.
type Feature int

const (
	FeatureLambda Feature = iota
	FeatureMethodReference
	FeatureNotIn
	FeatureNotInstanceof
	FeatureIdentity
	FeatureElvisAssign
	FeatureSafeIndex
	FeatureSafeChainDot
	FeatureDoWhile
	FeatureVar
	FeatureTryResources
	FeatureSwitchExpression
	FeatureArrowCase
	FeatureYield
	FeatureRecord
	FeatureSealed
	FeatureLeftOpenRange
)

type featureInfo struct {
	name       string
	constraint *semver.Constraints
}

var features = map[Feature]featureInfo{
	FeatureLambda:           {"lambda expressions", since("3.0.0")},
	FeatureMethodReference:  {"method references", since("3.0.0")},
	FeatureNotIn:            {"the !in operator", since("3.0.0")},
	FeatureNotInstanceof:    {"the !instanceof operator", since("3.0.0")},
	FeatureIdentity:         {"identity comparison", since("3.0.0")},
	FeatureElvisAssign:      {"elvis assignment", since("3.0.0")},
	FeatureSafeIndex:        {"safe indexing", since("3.0.0")},
	FeatureSafeChainDot:     {"safe chain navigation", since("3.0.0")},
	FeatureDoWhile:          {"do/while loops", since("3.0.0")},
	FeatureVar:              {"var declarations", since("3.0.0")},
	FeatureTryResources:     {"try-with-resources", since("3.0.0")},
	FeatureSwitchExpression: {"switch expressions", since("4.0.0")},
	FeatureArrowCase:        {"arrow case labels", since("4.0.0")},
	FeatureYield:            {"yield statements", since("4.0.0")},
	FeatureRecord:           {"records", since("4.0.0")},
	FeatureSealed:           {"sealed types", since("4.0.0")},
	FeatureLeftOpenRange:    {"left-exclusive ranges", since("4.0.0")},
}

func since(v string) *semver.Constraints {
	c, err := semver.NewConstraint(">= " + v)
	if err != nil {
		panic(err)
	}
	return c
}

// Supports reports whether the grammar version v accepts f.
func Supports(v *semver.Version, f Feature) bool {
	info, ok := features[f]
	if !ok {
		return true
	}
	return info.constraint.Check(v)
}

// gate reports SyntaxUnavailable when f is newer than the configured
// version. Parsing continues either way.
func (p *Parser) gate(f Feature, at token.Span) {
	if Supports(p.version, f) {
		return
	}
	info := features[f]
	p.report(SyntaxUnavailable, at,
		fmt.Sprintf("%s require grammar version %s, have %s", info.name, info.constraint, p.version))
}
