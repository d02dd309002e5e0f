package tool

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/naruebet/voiceline/agent/contract"
)

func TestDefaultExecutor(t *testing.T) {
	t.Parallel()

	exec := DefaultExecutor(contractx.AgentTypeFoodOrder)
	res, err := exec(context.Background(), "fly_to_moon", nil)
	if err != nil {
		t.Fatalf("DefaultExecutor() error = %v, unregistered tools must not abort", err)
	}
	if res.Tool != "fly_to_moon" {
		t.Fatalf("res.Tool = %q", res.Tool)
	}
	if !strings.Contains(res.Error, contractx.ErrUnknownTool.Error()) {
		t.Fatalf("res.Error = %q, want the unknown-tool sentinel text", res.Error)
	}
	if !strings.Contains(res.Error, "agent=foodorder") {
		t.Fatalf("res.Error = %q, want the persona named", res.Error)
	}
}
