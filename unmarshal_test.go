package lace

import (
	"reflect"
	"testing"
)

func TestUnmarshal(t *testing.T) {
	input := `host = [[localhost]]
port = 8080
timeout = 2.5
debug = true
tags = { [[auth]]. [[api]]. }`

	type config struct {
		Host    string   `lace:"host"`
		Port    int      `lace:"port"`
		Timeout float64  `lace:"timeout"`
		Debug   bool     `lace:"debug"`
		Tags    []string `lace:"tags"`
	}

	var cfg config
	if err := Unmarshal([]byte(input), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	expected := config{
		Host:    "localhost",
		Port:    8080,
		Timeout: 2.5,
		Debug:   true,
		Tags:    []string{"auth", "api"},
	}
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("Unmarshal() = %+v, want %+v", cfg, expected)
	}
}

func TestUnmarshal_DefaultFieldName(t *testing.T) {
	var cfg struct {
		Port int
	}
	if err := Unmarshal([]byte("port = 9090"), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected 9090, got %d", cfg.Port)
	}
}

func TestUnmarshal_Required(t *testing.T) {
	var cfg struct {
		Host string `lace:"host,required"`
	}
	err := Unmarshal([]byte("port = 1"), &cfg)
	if err == nil {
		t.Fatal("Expected error for missing required field")
	}
}

func TestUnmarshal_IgnoredField(t *testing.T) {
	var cfg struct {
		Host string `lace:"-"`
	}
	if err := Unmarshal([]byte("host = [[x]]"), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if cfg.Host != "" {
		t.Errorf("Ignored field was set: %q", cfg.Host)
	}
}

func TestUnmarshal_ConstantsResolve(t *testing.T) {
	input := `poolSize := 10
pool = !(poolSize)`

	var cfg struct {
		Pool int `lace:"pool"`
	}
	if err := Unmarshal([]byte(input), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if cfg.Pool != 10 {
		t.Errorf("Expected 10, got %d", cfg.Pool)
	}
}

func TestUnmarshal_PointerField(t *testing.T) {
	var cfg struct {
		Port *int `lace:"port"`
	}
	if err := Unmarshal([]byte("port = 8080"), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if cfg.Port == nil || *cfg.Port != 8080 {
		t.Errorf("Expected *8080, got %v", cfg.Port)
	}
}

func TestUnmarshal_InterfaceField(t *testing.T) {
	var cfg struct {
		Raw any `lace:"raw"`
	}
	if err := Unmarshal([]byte("raw = { 1. 2. }"), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Raw, Array{Int(1), Int(2)}) {
		t.Errorf("Unexpected raw value: %#v", cfg.Raw)
	}
}

func TestUnmarshal_NestedSlices(t *testing.T) {
	var cfg struct {
		Matrix [][]int `lace:"matrix"`
	}
	if err := Unmarshal([]byte("matrix = { { 1. 2. }. { 3. 4. }. }"), &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Matrix, [][]int{{1, 2}, {3, 4}}) {
		t.Errorf("Unexpected matrix: %#v", cfg.Matrix)
	}
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	var cfg struct {
		Port int `lace:"port"`
	}
	if err := Unmarshal([]byte("port = [[not a number]]"), &cfg); err == nil {
		t.Fatal("Expected error converting text to int")
	}
}

func TestUnmarshal_NotAPointer(t *testing.T) {
	var cfg struct{}
	if err := Unmarshal([]byte(""), cfg); err == nil {
		t.Fatal("Expected error for non-pointer target")
	}
}

func TestUnmarshal_ParseErrorPropagates(t *testing.T) {
	var cfg struct{}
	if err := Unmarshal([]byte("not a valid line"), &cfg); err == nil {
		t.Fatal("Expected parse error to propagate")
	}
}
