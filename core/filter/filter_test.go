package filter

import (
	"testing"

	"tfadopt/core/types"
)

func resourceWith(id string, attributes map[string]interface{}) *types.Resource {
	r := types.NewResource(id, id, "aws_instance", "aws", attributes)
	return &r
}

// TestParseIdentifierForm covers "<service>=<id1>:<id2>"
func TestParseIdentifierForm(t *testing.T) {
	predicates := Parse("ec2=i-1:i-2")
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}

	p := predicates[0]
	if p.Service != "ec2" || p.FieldPath != FieldID {
		t.Errorf("unexpected predicate: %+v", p)
	}

	pass := resourceWith("i-1", nil)
	fail := resourceWith("i-3", nil)

	if !Allowed(pass, "ec2", predicates) {
		t.Error("id i-1 should pass")
	}
	if Allowed(fail, "ec2", predicates) {
		t.Error("id i-3 should be rejected")
	}
	// Category mismatch routes to the not-applicable branch, which
	// passes through.
	if !Allowed(fail, "s3", predicates) {
		t.Error("non-ec2 resource should pass regardless of id")
	}
}

// TestParseIdentifierFormWildcard covers an empty service part
func TestParseIdentifierFormWildcard(t *testing.T) {
	predicates := Parse("=i-1")
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}

	if Allowed(resourceWith("i-9", nil), "anything", predicates) {
		t.Error("wildcard-service predicate must apply to every service")
	}
	if !Allowed(resourceWith("i-1", nil), "anything", predicates) {
		t.Error("matching id must pass")
	}
}

// TestParseFieldForm covers the Type/Name/Value clause form
func TestParseFieldForm(t *testing.T) {
	predicates := Parse("Type=ec2;Name=instance_type;Value=t3.micro:t3.small")

	r := resourceWith("i-1", map[string]interface{}{"instance_type": "t3.micro"})
	if !Allowed(r, "ec2", predicates) {
		t.Error("matching field value should pass")
	}

	r2 := resourceWith("i-2", map[string]interface{}{"instance_type": "m5.large"})
	if Allowed(r2, "ec2", predicates) {
		t.Error("non-matching field value should be rejected")
	}
}

// TestFilterFailClosed proves a missing Value clause rejects every
// applicable resource
func TestFilterFailClosed(t *testing.T) {
	predicates := Parse("Type=ec2;Name=instance_type")
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}
	if len(predicates[0].AcceptableValues) != 0 {
		t.Fatalf("acceptable set should be empty, got %v", predicates[0].AcceptableValues)
	}

	r := resourceWith("i-1", map[string]interface{}{"instance_type": "t3.micro"})
	if Allowed(r, "ec2", predicates) {
		t.Error("ec2 resource must be rejected when no Value clause is given")
	}
	if !Allowed(r, "rds", predicates) {
		t.Error("non-applicable service must still pass")
	}
}

// TestDottedFieldPath descends into nested mappings and lists
func TestDottedFieldPath(t *testing.T) {
	predicates := Parse("Type=ecs;Name=network_configuration.subnets;Value=subnet-1")

	r := resourceWith("svc-1", map[string]interface{}{
		"network_configuration": map[string]interface{}{
			"subnets": []interface{}{"subnet-0", "subnet-1"},
		},
	})
	if !Allowed(r, "ecs", predicates) {
		t.Error("nested list element should satisfy the predicate")
	}

	r2 := resourceWith("svc-2", map[string]interface{}{
		"network_configuration": map[string]interface{}{
			"subnets": []interface{}{"subnet-9"},
		},
	})
	if Allowed(r2, "ecs", predicates) {
		t.Error("non-matching nested value should be rejected")
	}
}

// TestMalformedExpression proves the parser never fails
func TestMalformedExpression(t *testing.T) {
	for _, expr := range []string{"", "no-equals-here", "just:colons"} {
		if got := Parse(expr); got != nil {
			t.Errorf("Parse(%q) = %v, want no predicates", expr, got)
		}
	}
}

// TestStraySemicolonStaysIdentifierForm proves an identifier expression
// with a stray ";" is not mistaken for the field form, which would
// reject every resource of every service
func TestStraySemicolonStaysIdentifierForm(t *testing.T) {
	predicates := Parse("ec2=i-1;i-2")
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}

	p := predicates[0]
	if p.Service != "ec2" || p.FieldPath != FieldID {
		t.Errorf("expression should parse as identifier form: %+v", p)
	}
	if len(p.AcceptableValues) == 0 {
		t.Error("acceptable set must not be empty")
	}

	// Other services are unaffected either way.
	if !Allowed(resourceWith("b-1", nil), "s3", predicates) {
		t.Error("non-ec2 resource must pass")
	}
}

// TestFiltersCombineWithAnd proves multiple expressions must all pass
func TestFiltersCombineWithAnd(t *testing.T) {
	predicates := ParseAll([]string{
		"ec2=i-1:i-2",
		"Type=ec2;Name=instance_type;Value=t3.micro",
	})
	if len(predicates) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(predicates))
	}

	both := resourceWith("i-1", map[string]interface{}{"instance_type": "t3.micro"})
	onlyID := resourceWith("i-2", map[string]interface{}{"instance_type": "m5.large"})

	if !Allowed(both, "ec2", predicates) {
		t.Error("resource matching both predicates should pass")
	}
	if Allowed(onlyID, "ec2", predicates) {
		t.Error("resource matching only one predicate should be rejected")
	}
}
