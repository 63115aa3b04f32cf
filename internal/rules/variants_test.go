package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/skaut/skautis-gate/internal/core"
)

// stubSource is a fixed in-memory FactSource.
type stubSource struct {
	roles   map[string][]string
	quals   map[string]struct{}
	members map[string][]string
	funcs   map[string][]string
	err     error
}

func (s *stubSource) RoleUnits(context.Context) (map[string][]string, error) {
	return s.roles, s.err
}

func (s *stubSource) QualificationSet(context.Context) (map[string]struct{}, error) {
	return s.quals, s.err
}

func (s *stubSource) MembershipUnits(context.Context) (map[string][]string, error) {
	return s.members, s.err
}

func (s *stubSource) FunctionUnits(context.Context) (map[string][]string, error) {
	return s.funcs, s.err
}

func TestEvaluate_RoleSetSemantics(t *testing.T) {
	// actor: leader of unit 123.45, treasurer of units 123.45.001 and 678.90
	src := &stubSource{
		roles: map[string][]string{
			"vedouci":  {"123.45"},
			"hospodar": {"123.45.001", "678.90"},
		},
	}

	tests := []struct {
		name    string
		op      Operator
		encoded string
		want    bool
	}{
		// --- in ---
		{name: "In - Held Role Exact Unit", op: OpIn, encoded: "vedouci~equal~123.45", want: true},
		{name: "In - Held Role Normalized Unit Form", op: OpIn, encoded: "vedouci~equal~12345", want: true},
		{name: "In - Held Role Wrong Unit", op: OpIn, encoded: "vedouci~equal~999.99", want: false},
		{name: "In - Held Role Any Unit", op: OpIn, encoded: "vedouci~any~", want: true},
		{name: "In - Unheld Role", op: OpIn, encoded: "admin~any~", want: false},
		{name: "In - One Of Many Held", op: OpIn, encoded: "admin,vedouci~any~", want: true},
		{name: "In - Begins With Parent Unit", op: OpIn, encoded: "hospodar~begins_with~123.45", want: true},
		{name: "In - Begins With Unrelated Unit", op: OpIn, encoded: "hospodar~begins_with~999", want: false},

		// --- not_in ---
		{name: "NotIn - Unheld Role", op: OpNotIn, encoded: "admin~any~", want: true},
		{name: "NotIn - Held Role", op: OpNotIn, encoded: "vedouci~any~", want: false},
		{name: "NotIn - Mixed Candidates", op: OpNotIn, encoded: "vedouci,admin~any~", want: true},

		// A held role with no matching unit satisfies neither "in" nor
		// "not_in". This pair documents the non-complementarity.
		{name: "In - Held Role Unmatched Unit", op: OpIn, encoded: "vedouci~equal~999.99", want: false},
		{name: "NotIn - Held Role Unmatched Unit", op: OpNotIn, encoded: "vedouci~equal~999.99", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), KindRole, tt.op, tt.encoded, src)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(role %s %q) = %v, want %v", tt.op, tt.encoded, got, tt.want)
			}
		})
	}
}

func TestEvaluate_MembershipAndFunc(t *testing.T) {
	src := &stubSource{
		members: map[string][]string{"clen": {"123.45"}},
		funcs:   map[string][]string{"vudce_oddilu": {"123.45.001"}},
	}

	tests := []struct {
		name    string
		kind    Kind
		op      Operator
		encoded string
		want    bool
	}{
		{name: "Membership Match", kind: KindMembership, op: OpIn, encoded: "clen~equal~123.45", want: true},
		{name: "Membership Wrong Type", kind: KindMembership, op: OpIn, encoded: "cekatel~any~", want: false},
		{name: "Func Prefix Match", kind: KindFunc, op: OpIn, encoded: "vudce_oddilu~begins_with~12345", want: true},
		{name: "Func NotIn Unheld", kind: KindFunc, op: OpNotIn, encoded: "vudce_strediska~any~", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), tt.kind, tt.op, tt.encoded, src)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%s %s %q) = %v, want %v", tt.kind, tt.op, tt.encoded, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Qualification(t *testing.T) {
	src := &stubSource{
		quals: map[string]struct{}{"zdravotnik": {}, "vudcovska_zkouska": {}},
	}

	tests := []struct {
		name    string
		op      Operator
		encoded string
		want    bool
		wantErr error
	}{
		{name: "Held", op: OpIn, encoded: "zdravotnik", want: true},
		{name: "One Of Many Held", op: OpIn, encoded: "cekatelska_zkouska,zdravotnik", want: true},
		{name: "Unheld", op: OpIn, encoded: "cekatelska_zkouska", want: false},
		{name: "NotIn Not Declared", op: OpNotIn, encoded: "zdravotnik", wantErr: core.ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), KindQualification, tt.op, tt.encoded, src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Evaluate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(qualification %s %q) = %v, want %v", tt.op, tt.encoded, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	src := &stubSource{roles: map[string][]string{"vedouci": {"123.45"}}}

	tests := []struct {
		name    string
		kind    Kind
		op      Operator
		encoded string
		wantErr error
	}{
		{name: "Unknown Kind", kind: Kind("group"), op: OpIn, encoded: "x~any~", wantErr: core.ErrUnknownRuleKind},
		{name: "Unknown Operator", kind: KindRole, op: Operator("matches"), encoded: "x~any~", wantErr: core.ErrUnknownOperator},
		{name: "Unknown Unit Operator", kind: KindRole, op: OpIn, encoded: "x~matches~1", wantErr: core.ErrUnknownOperator},
		{name: "Malformed Value", kind: KindRole, op: OpIn, encoded: "no-tildes-here", wantErr: core.ErrMalformedRuleValue},
		{name: "Malformed Qualification Value", kind: KindQualification, op: OpIn, encoded: "a~b~c", wantErr: core.ErrMalformedRuleValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), tt.kind, tt.op, tt.encoded, src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Evaluate() error = %v, want %v", err, tt.wantErr)
			}
			if got {
				t.Error("Evaluate() = true on error, want false")
			}
		})
	}
}

func TestEvaluate_SourceErrorPropagates(t *testing.T) {
	src := &stubSource{err: core.ErrIdentityUnavailable}

	got, err := Evaluate(context.Background(), KindRole, OpIn, "vedouci~any~", src)
	if !errors.Is(err, core.ErrIdentityUnavailable) {
		t.Fatalf("Evaluate() error = %v, want ErrIdentityUnavailable", err)
	}
	if got {
		t.Error("Evaluate() = true on provider error, want false")
	}
}
