package berlin

import (
	"errors"
	"testing"
)

func TestCheckGroupsOrphans(t *testing.T) {
	cat := NewCatalog([]Code{
		NewSubdivision("US", "NY", "state", "New York"),
		loc("US NYC", "US", "NY", "New York", nil),
		loc("US BOS", "US", "ZZ", "Boston", nil),
	})

	missing, err := Check(cat)
	if err != nil {
		t.Fatal(err)
	}
	if got := missing.States(); len(got) != 1 || got[0] != "US" {
		t.Fatalf("States() = %v, want [US]", got)
	}
	if got := missing.Codes("US"); len(got) != 1 || got[0] != "ZZ" {
		t.Fatalf("Codes(US) = %v, want [ZZ]", got)
	}
	orphans := missing["US"]["ZZ"]
	if len(orphans) != 1 || orphans[0].Identifier() != "US BOS" {
		t.Errorf("orphans = %v, want [US BOS]", orphans)
	}
	if missing.Count() != 1 {
		t.Errorf("Count() = %d, want 1", missing.Count())
	}
}

func TestCheckSeveralStates(t *testing.T) {
	cat := NewCatalog([]Code{
		loc("US AAA", "US", "ZZ", "A", nil),
		loc("GB BBB", "GB", "ENG", "B", nil),
		loc("US CCC", "US", "ZZ", "C", nil),
		loc("US DDD", "US", "QQ", "D", nil),
		loc("GB EEE", "GB", "", "E", nil),
	})

	missing, err := Check(cat)
	if err != nil {
		t.Fatal(err)
	}
	if got := missing.States(); len(got) != 2 || got[0] != "GB" || got[1] != "US" {
		t.Errorf("States() = %v, want [GB US]", got)
	}
	if got := missing.Codes("US"); len(got) != 2 || got[0] != "QQ" || got[1] != "ZZ" {
		t.Errorf("Codes(US) = %v, want [QQ ZZ]", got)
	}
	zz := missing["US"]["ZZ"]
	if len(zz) != 2 || zz[0].Identifier() != "US AAA" || zz[1].Identifier() != "US CCC" {
		t.Errorf("US:ZZ orphans = %v, want catalog order [US AAA, US CCC]", zz)
	}
	if missing.Count() != 4 {
		t.Errorf("Count() = %d, want 4", missing.Count())
	}
}

func TestCheckConsistentCatalog(t *testing.T) {
	missing, err := Check(testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if !missing.Empty() {
		t.Errorf("Check = %v, want empty", missing)
	}
}

func TestCheckNoCatalog(t *testing.T) {
	if _, err := Check(nil); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("err = %v, want ErrNoCatalog", err)
	}
}
