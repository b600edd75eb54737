package diag

import "testing"

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(CodePendingWork, "a", SevNote, "")) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(New(CodePendingWork, "b", SevNote, "")) {
		t.Fatal("second add rejected")
	}
	if bag.Add(New(CodePendingWork, "c", SevNote, "")) {
		t.Fatal("add beyond limit accepted")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bag.Len())
	}
}

func TestBagMergeWithinLimit(t *testing.T) {
	a := NewBag(4)
	a.Add(New(MDMissingLicense, "x", SevWarning, "Cargo.toml"))
	b := NewBag(4)
	b.Add(New(MDMissingDescription, "y", SevWarning, "Cargo.toml"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merged Len() = %d, want 2", a.Len())
	}
}

func TestBagMergeHonorsLimit(t *testing.T) {
	a := NewBag(2)
	b := NewBag(0)
	for i := 0; i < 5; i++ {
		b.Add(New(CodePendingWork, "todo", SevNote, "src/a.rs"))
	}

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merged Len() = %d, want the receiver's limit of 2", a.Len())
	}
}

func TestBagNegativeLimitIsUnlimited(t *testing.T) {
	bag := NewBag(-1)
	for i := 0; i < 100; i++ {
		if !bag.Add(New(CodePendingWork, "todo", SevNote, "")) {
			t.Fatal("add rejected on unlimited bag")
		}
	}
	if bag.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", bag.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(CodePendingWork, "todo", SevNote, "src/b.rs").WithLine(3))
	bag.Add(New(CodeUnwrapInLibrary, "unwrap", SevWarning, "src/b.rs").WithLine(3))
	bag.Add(New(CodePendingWork, "todo", SevNote, "src/a.rs").WithLine(9))
	bag.Add(New(MDMissingLicense, "license", SevWarning, "Cargo.toml"))

	bag.Sort()
	items := bag.Items()

	wantOrder := []Code{MDMissingLicense, CodePendingWork, CodeUnwrapInLibrary, CodePendingWork}
	wantFiles := []string{"Cargo.toml", "src/a.rs", "src/b.rs", "src/b.rs"}
	for i, f := range items {
		if f.Code != wantOrder[i] || f.FilePath != wantFiles[i] {
			t.Fatalf("item %d = %s %s, want %s %s", i, f.Code, f.FilePath, wantOrder[i], wantFiles[i])
		}
	}
}

func TestBagVerdict(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(CodePendingWork, "todo", SevNote, ""))
	if bag.HasBlocking() {
		t.Fatal("notes alone must not block")
	}
	bag.Add(New(DPWildcardVersion, "wildcard", SevWarning, ""))
	if !bag.HasBlocking() {
		t.Fatal("warning must block")
	}
	if bag.HasErrors() {
		t.Fatal("no errors added yet")
	}
	bag.Add(New(SecVulnerability, "vuln", SevError, ""))
	if !bag.HasErrors() {
		t.Fatal("error not detected")
	}
}

func TestBagFilterKeepsStructuralCodes(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(StructMissingReadme, "readme", SevNote, ""))
	bag.Add(New(MDMissingLicense, "license", SevWarning, "Cargo.toml"))
	bag.Add(New(CodePendingWork, "todo", SevNote, "src/a.rs"))

	// Disable everything: structural findings must survive.
	dropped := bag.Filter(func(Code) bool { return false })
	if dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != StructMissingReadme {
		t.Fatalf("unexpected survivors: %+v", bag.Items())
	}
}

func TestBagFilterDropsOnlyDisabled(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(MDMissingLicense, "license", SevWarning, "Cargo.toml"))
	bag.Add(New(MDMissingDescription, "description", SevWarning, "Cargo.toml"))

	bag.Filter(func(c Code) bool { return c != MDMissingLicense })
	if bag.Len() != 1 || bag.Items()[0].Code != MDMissingDescription {
		t.Fatalf("unexpected survivors: %+v", bag.Items())
	}
}
