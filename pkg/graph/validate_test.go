package graph

import (
	"strings"
	"testing"

	"github.com/chazu/satforge/pkg/geom"
)

func TestValidateEmptySatellite(t *testing.T) {
	s, _ := NewFleet().CreateSatellite(testCatalog(t), "Alpha", 0, 0)
	if errs := Validate(s); len(errs) != 0 {
		t.Fatalf("fresh satellite should validate, got %v", errs)
	}
}

func TestValidateChain(t *testing.T) {
	cat := testCatalog(t)
	s, _ := NewFleet().CreateSatellite(cat, "Alpha", 0, 0)
	mf := s.Root().Type
	beam, _ := cat.Lookup("beam")

	a := s.AddPart(beam, s.Root(), geom.Rot0, conn(t, mf, geom.Down), conn(t, beam, geom.Up))
	s.AddPart(beam, a, geom.Rot0, conn(t, beam, geom.Down), conn(t, beam, geom.Up))
	// Right socket on the mainframe takes a beam turned 270° (its up plug faces left).
	s.AddPart(beam, s.Root(), geom.Rot270, conn(t, mf, geom.Right), conn(t, beam, geom.Up))

	if errs := Validate(s); len(errs) != 0 {
		t.Fatalf("expected no findings, got %v", errs)
	}
}

func TestValidateIncompatibleDirections(t *testing.T) {
	cat := testCatalog(t)
	s, _ := NewFleet().CreateSatellite(cat, "Alpha", 0, 0)
	beam, _ := cat.Lookup("beam")

	// Down socket against a down-facing plug.
	s.AddPart(beam, s.Root(), geom.Rot0, conn(t, s.Root().Type, geom.Down), conn(t, beam, geom.Down))

	errs := Validate(s)
	if len(errs) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(errs), errs)
	}
	if errs[0].Severity != SeverityError {
		t.Errorf("expected error severity, got %s", errs[0].Severity)
	}
	if !strings.Contains(errs[0].Message, "incompatible directions") {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
	if errs[0].PartID != 1 {
		t.Errorf("finding on part %d, want 1", errs[0].PartID)
	}
}

func TestValidateWrongConnectorType(t *testing.T) {
	cat := testCatalog(t)
	s, _ := NewFleet().CreateSatellite(cat, "Alpha", 0, 0)
	beam, _ := cat.Lookup("beam")

	// Parent connector taken from beam although the parent is the mainframe.
	s.AddPart(beam, s.Root(), geom.Rot0, conn(t, beam, geom.Down), conn(t, beam, geom.Up))

	errs := Validate(s)
	if len(errs) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "not on part type mainframe") {
		t.Errorf("unexpected finding %q", errs[0].Error())
	}
}

func TestValidateFleet(t *testing.T) {
	cat := testCatalog(t)
	f := NewFleet()
	good, _ := f.CreateSatellite(cat, "Good", 0, 0)
	bad, _ := f.CreateSatellite(cat, "Bad", 0, 0)
	beam, _ := cat.Lookup("beam")

	good.AddPart(beam, good.Root(), geom.Rot0, conn(t, good.Root().Type, geom.Down), conn(t, beam, geom.Up))
	bad.AddPart(beam, bad.Root(), geom.Rot0, conn(t, bad.Root().Type, geom.Left), conn(t, beam, geom.Up))

	errs := ValidateFleet(f)
	if len(errs) != 1 {
		t.Fatalf("expected 1 finding, got %v", errs)
	}
	if errs[0].Satellite != "Bad" {
		t.Errorf("finding on %q, want Bad", errs[0].Satellite)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Satellite: "Alpha", PartID: 3, Message: "boom", Severity: SeverityWarning}
	if got, want := e.Error(), "[warning] Alpha part 3: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	e.PartID = -1
	if got, want := e.Error(), "[warning] Alpha: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
