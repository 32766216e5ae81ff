package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessModeValid(t *testing.T) {
	valid := []AccessMode{AccessRead, AccessWrite, AccessReadWrite, AccessAdmin, AccessUse, AccessInvoke, AccessConsume, AccessForward}
	for _, a := range valid {
		assert.True(t, a.Valid(), "%s should be valid", a)
	}
	assert.False(t, AccessMode("delete").Valid())
	assert.False(t, AccessMode("").Valid())
}

func TestComplianceFrameworkIsFedRAMP(t *testing.T) {
	assert.False(t, FrameworkCommercial.IsFedRAMP())
	assert.True(t, FrameworkFedRAMPModerate.IsFedRAMP())
	assert.True(t, FrameworkFedRAMPHigh.IsFedRAMP())
}

func TestBindingDirectiveString(t *testing.T) {
	b := BindingDirective{From: "api", To: "queue", Capability: "queue:sqs", Access: AccessReadWrite}
	assert.Equal(t, "api -> queue:queue:sqs (readwrite)", b.String())
}

func TestScopeHandleChild(t *testing.T) {
	root := ScopeHandle{}
	svc := root.Child("checkout")
	comp := svc.Child("api")

	assert.Equal(t, "checkout", svc.Path)
	assert.Equal(t, "checkout/api", comp.Path)
}
