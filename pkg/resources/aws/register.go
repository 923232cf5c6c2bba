// Package aws is the data-driven schema catalog for AWS resource kinds. Each
// schema is plain data (field specs, invariants, derived-property functions)
// consumed by the generic validator; none of them carries bespoke engine
// logic. Registration is explicit: call RegisterInto on the registry the
// session will use.
package aws

import (
	"github.com/pangealabs/tfsynth/pkg/schema"
	"github.com/pangealabs/tfsynth/pkg/synth"
)

func RegisterInto(reg *synth.Registry) {
	for _, s := range Schemas() {
		reg.Register(s)
	}
}

func Schemas() []*schema.Schema {
	return []*schema.Schema{
		ApiGatewayIntegration(),
		AutoscalingGroup(),
		CostCategory(),
		EcrRepository(),
		IamPolicy(),
		LambdaPermission(),
		LaunchTemplate(),
	}
}
