package models

import (
	"reflect"
	"testing"
)

func TestCountSetAddNil(t *testing.T) {
	var r RuleEntry
	r.AllowedCounts.Add(3)
	r.AllowedCounts.Add(1)

	if !r.AllowedCounts.Has(3) {
		t.Error("Has(3) = false after Add")
	}
	if got := r.AllowedCounts.Sorted(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Sorted() = %v", got)
	}
	if r.DisallowedCounts.Has(3) {
		t.Error("nil set reports a member")
	}
}
