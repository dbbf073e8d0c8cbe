package memory

import (
	"reflect"
	"strings"
	"testing"
)

func TestUpsertNameAppendsExactlyOnce(t *testing.T) {
	s := NewFactStore()
	s.UpsertName("Sam")
	s.UpsertName("Sam")
	s.UpsertName("Sam")

	points := s.Points()
	count := 0
	for _, p := range points {
		if strings.Contains(p, "name is Sam") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("name points = %d, want exactly 1 (points: %v)", count, points)
	}
	if got := s.UserInfo().Name; got != "Sam" {
		t.Fatalf("name = %q, want Sam", got)
	}
}

func TestUpsertNameNewNameAppendsNewPoint(t *testing.T) {
	s := NewFactStore()
	s.UpsertName("Alex")
	s.UpsertName("Sam")

	if got := s.UserInfo().Name; got != "Sam" {
		t.Fatalf("name = %q, want Sam (last detection wins)", got)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("points = %d, want 2 (one per distinct name)", got)
	}
}

func TestUpsertInterestsReplacesInPlace(t *testing.T) {
	s := NewFactStore()
	s.Add("User's name is Sam")
	s.UpsertInterests([]string{"painting"})
	s.Add("User works remotely")
	s.UpsertInterests([]string{"painting", "hiking"})

	points := s.Points()
	if len(points) != 3 {
		t.Fatalf("points = %v, want 3 entries (interest point replaced in place)", points)
	}
	if points[1] != "User is interested in painting, hiking" {
		t.Fatalf("interest point = %q, want updated text at original position", points[1])
	}
	want := []string{"painting", "hiking"}
	if got := s.UserInfo().Interests; !reflect.DeepEqual(got, want) {
		t.Fatalf("interests = %v, want %v", got, want)
	}
}

func TestUpsertInterestsUnchangedIsNoop(t *testing.T) {
	s := NewFactStore()
	s.UpsertInterests([]string{"painting", "hiking"})
	before := s.Points()
	s.UpsertInterests([]string{"painting", "hiking"})
	after := s.Points()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("points changed on identical upsert: %v -> %v", before, after)
	}
}

func TestUpsertInterestsOrderSensitive(t *testing.T) {
	s := NewFactStore()
	s.UpsertInterests([]string{"painting", "hiking"})
	s.UpsertInterests([]string{"hiking", "painting"})
	if got := s.Points(); len(got) != 1 || got[0] != "User is interested in hiking, painting" {
		t.Fatalf("points = %v, want reordered interest point", got)
	}
}

func TestUserEdits(t *testing.T) {
	s := NewFactStore()
	s.Add("User prefers evening meetups")
	s.Add("  ")
	if got := s.Len(); got != 1 {
		t.Fatalf("len = %d, want 1 (blank points dropped)", got)
	}

	if !s.Update(0, "User prefers morning meetups") {
		t.Fatal("Update() = false, want true")
	}
	if s.Update(5, "x") {
		t.Fatal("Update(out of range) = true, want false")
	}
	if got := s.Points()[0]; got != "User prefers morning meetups" {
		t.Fatalf("point = %q after update", got)
	}

	s.Add("second")
	if !s.Remove(0) {
		t.Fatal("Remove() = false, want true")
	}
	if got := s.Points(); len(got) != 1 || got[0] != "second" {
		t.Fatalf("points = %v after remove", got)
	}
}

func TestClearEmptiesPointsAndInfo(t *testing.T) {
	s := NewFactStore()
	s.UpsertName("Sam")
	s.UpsertInterests([]string{"painting"})

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("points = %v, want empty", s.Points())
	}
	info := s.UserInfo()
	if info.Name != "" || len(info.Interests) != 0 {
		t.Fatalf("info = %+v, want zero value", info)
	}
}

func TestRestoreRederivesUserInfo(t *testing.T) {
	s := NewFactStore()
	s.Restore([]string{
		"User's name is Dana",
		"User is interested in pottery, chess",
		"Prefers weekend events",
	})

	info := s.UserInfo()
	if info.Name != "Dana" {
		t.Fatalf("Name = %q, want Dana", info.Name)
	}
	if len(info.Interests) != 2 || info.Interests[0] != "pottery" || info.Interests[1] != "chess" {
		t.Fatalf("Interests = %v, want [pottery chess]", info.Interests)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}
