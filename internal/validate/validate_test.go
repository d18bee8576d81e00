package validate

import (
	"testing"

	"github.com/sevigo/hubmerge/internal/render"
)

func feedAll(v *Validator, texts ...string) error {
	for _, t := range texts {
		if err := v.Feed(render.Block{Text: t}); err != nil {
			return err
		}
	}
	return nil
}

func TestValidator_HappyPath(t *testing.T) {
	v := New(false)
	err := feedAll(v,
		"# Merge Report: demo (Part 1/1)\n\n",
		"## Source & Profile\n\ntext\n",
		"## Profile Description\n\ntext\n",
		"## Reading Plan\n\ntext\n",
		"## Plan\n\ntext\n",
		"<!-- START_OF_CONTENT -->\n\n",
		"## Manifest\n\n<a id=\"manifest\"></a>\n\n",
		"## Content\n\n",
		"<!-- file:id=\"f_a\" path=\"a.go\" -->\n<a id=\"file-demo-a-go\"></a>\n\n```\ncode\n```\n\n",
	)
	if err != nil {
		t.Fatalf("Feed returned unexpected error: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close returned unexpected error: %v", err)
	}
}

func TestValidator_OutOfOrderSection(t *testing.T) {
	v := New(false)
	err := feedAll(v,
		"# Title\n\n",
		"## Manifest\n\ntext\n",
		"## Source & Profile\n\ntext\n",
	)
	if err == nil {
		t.Fatal("expected an out-of-order section error")
	}
}

func TestValidator_DuplicateAnchor(t *testing.T) {
	v := New(false)
	err := feedAll(v,
		"# Title\n\n",
		"<a id=\"dup\"></a>\n",
		"<a id=\"dup\"></a>\n",
	)
	if err == nil {
		t.Fatal("expected a duplicate anchor error")
	}
}

func TestValidator_UnclosedFence(t *testing.T) {
	v := New(false)
	_ = feedAll(v, "# Title\n\n```\nunclosed\n")
	if err := v.Close(); err == nil {
		t.Fatal("expected Close to reject an unclosed fence")
	}
}

func TestValidator_NestedFence_LongerContainsShorter(t *testing.T) {
	// Plan-only, so Close checks fence balance without also demanding the
	// content sections this minimal document does not carry.
	v := New(true)
	err := feedAll(v,
		"# Title\n\n",
		"````\n",
		"```\nnested\n```\n",
		"````\n",
	)
	if err != nil {
		t.Fatalf("nested shorter fence inside a longer one should be fine: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestValidator_PlanOnly_SkipsContentRequirement(t *testing.T) {
	v := New(true)
	err := feedAll(v, "# Title\n\n", "## Plan\n\ntext\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("plan-only report should not require Manifest/Content: %v", err)
	}
}
