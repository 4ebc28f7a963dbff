package project

import (
	"errors"
	"reflect"
	"testing"

	"github.com/csb-labs/csb/internal/errs"
)

func TestAddBuiltinIdempotent(t *testing.T) {
	s := NewSelection([]string{"filesystem"}, false, 0)

	added, err := s.AddBuiltin("github")
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	before, _ := s.Marshal()

	added, err = s.AddBuiltin("github")
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if added {
		t.Error("second add should report no change")
	}
	after, _ := s.Marshal()
	if string(before) != string(after) {
		t.Errorf("record changed on repeated add:\n%s\n---\n%s", before, after)
	}
}

func TestAddBuiltinUnknown(t *testing.T) {
	s := NewSelection(nil, false, 0)
	_, err := s.AddBuiltin("slack")
	if !errors.Is(err, errs.UnknownServer) {
		t.Errorf("expected UnknownServer, got %v", err)
	}
}

func TestAddCustom(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		command string
		want    errs.Kind
	}{
		{"builtin name", "github", "x", errs.NameConflict},
		{"empty command", "mine", "  ", errs.InvalidDefinition},
		{"ok", "mine", "my-server", errs.Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection(nil, false, 0)
			err := s.AddCustom(tt.server, tt.command, nil, nil)
			if tt.want == errs.Other {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAddCustomDuplicate(t *testing.T) {
	s := NewSelection(nil, false, 0)
	if err := s.AddCustom("mine", "a", nil, []string{"MY_TOKEN"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddCustom("mine", "b", nil, nil); !errors.Is(err, errs.NameConflict) {
		t.Errorf("expected NameConflict, got %v", err)
	}
	def, _ := s.CustomServers.Get("mine")
	if def.Command != "a" || !reflect.DeepEqual(def.RequiredEnv, []string{"MY_TOKEN"}) {
		t.Errorf("original definition replaced: %+v", def)
	}
}

func TestRemoveServer(t *testing.T) {
	s := NewSelection([]string{"filesystem", "github"}, false, 0)
	s.AddCustom("mine", "x", nil, nil)

	if err := s.RemoveServer("github"); err != nil {
		t.Fatalf("remove builtin: %v", err)
	}
	if err := s.RemoveServer("mine"); err != nil {
		t.Fatalf("remove custom: %v", err)
	}
	if err := s.RemoveServer("filesystem"); err != nil {
		t.Fatalf("removing the last server should be allowed: %v", err)
	}
	if len(s.Servers) != 0 || s.CustomServers.Len() != 0 {
		t.Errorf("servers left behind: %v %v", s.Servers, s.CustomServers.Names())
	}
	if err := s.RemoveServer("github"); !errors.Is(err, errs.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestExtraSources(t *testing.T) {
	s := NewSelection(nil, false, 0)

	if !s.AddExtraSource("/a") {
		t.Error("expected first add to change the record")
	}
	if s.AddExtraSource("/a") {
		t.Error("expected repeated add to be a no-op")
	}
	if !s.Context.Enabled {
		t.Error("adding a source should enable context integration")
	}
	if err := s.RemoveExtraSource("/a"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveExtraSource("/a"); !errors.Is(err, errs.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
