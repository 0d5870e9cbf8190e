// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleManifest() Manifest {
	one := 1
	return Manifest{
		SDK:            "com.github.dcbaker.flatpaker.Sdk//master",
		Runtime:        "com.github.dcbaker.flatpaker.Platform",
		RuntimeVersion: "master",
		ID:             "com.example.My_Game",
		BuildOptions:   BuildOptions{NoDebuginfo: true, Strip: false},
		Command:        "game.sh",
		FinishArgs:     []string{"--socket=pulseaudio", "--socket=x11", "--device=dri"},
		Modules: []Module{
			NewModule("My_Game", []Source{{Type: SourceArchive, Path: "/g/game.zip", SHA256: "abc", StripComponents: &one}},
				"mkdir -p /app/lib/game"),
			NewModule("game_sh", nil, "chmod +x /app/bin/game.sh"),
		},
	}
}

func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleManifest(), FormatJSON)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"sdk", "runtime", "runtime-version", "id", "build-options", "command", "finish-args", "modules"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if len(raw) != 8 {
		t.Errorf("unexpected top-level keys: %v", raw)
	}

	mods := raw["modules"].([]any)
	launcher := mods[1].(map[string]any)
	if srcs, ok := launcher["sources"].([]any); !ok || len(srcs) != 0 {
		t.Errorf("nil sources should encode as [], got %v", launcher["sources"])
	}
	if _, ok := launcher["cleanup"]; ok {
		t.Error("empty cleanup should be omitted")
	}
	if !bytes.Contains(data, []byte(`"strip-components": 1`)) {
		t.Errorf("strip-components missing:\n%s", data)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatJSON, FormatYAML} {
		a, err := Encode(sampleManifest(), f)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Encode(sampleManifest(), f)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s encoding not deterministic", f)
		}
	}
}

func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleManifest(), FormatYAML)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "sdk: ") {
		t.Errorf("YAML should start with sdk key:\n%s", data)
	}

	var back Manifest
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if back.ID != "com.example.My_Game" || len(back.Modules) != 2 {
		t.Errorf("decoded manifest = %+v", back)
	}
	if back.Modules[0].Sources[0].StripComponents == nil {
		t.Error("strip-components lost in YAML")
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if Filename("com.example.Game", FormatJSON) != "com.example.Game.json" {
		t.Error("json filename")
	}
	if Filename("com.example.Game", FormatYAML) != "com.example.Game.yml" {
		t.Error("yaml filename")
	}
	ok, errs := Format("xml").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidFormat) {
		t.Errorf("xml should be invalid, got %v %v", ok, errs)
	}
	if _, err := Encode(sampleManifest(), "xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Encode with bad format: %v", err)
	}
}

func TestEncode_JSONKeepsShellOperators(t *testing.T) {
	t.Parallel()

	m := sampleManifest()
	m.Modules[0].BuildCommands = []string{"cd /app/lib/game && sh ./*.sh > /dev/null"}
	data, err := Encode(m, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("cd /app/lib/game && sh ./*.sh > /dev/null")) {
		t.Errorf("shell operators should not be HTML-escaped:\n%s", data)
	}
}
