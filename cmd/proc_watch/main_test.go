package main

import (
	"reflect"
	"testing"
	"time"

	"procsnap/procinfo"
)

func TestGetEnvDuration(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 2 * time.Second},
		{"parsed", "750ms", 750 * time.Millisecond},
		{"unparseable", "soon", 2 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PROCWATCH_INTERVAL", tc.value)
			if got := getEnvDuration("PROCWATCH_INTERVAL", 2*time.Second); got != tc.want {
				t.Errorf("getEnvDuration(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PROCWATCH_PIDS", "")
	if got := getEnv("PROCWATCH_PIDS", "1"); got != "1" {
		t.Errorf("getEnv() with empty value = %q, want default", got)
	}

	t.Setenv("PROCWATCH_PIDS", "42,43")
	if got := getEnv("PROCWATCH_PIDS", "1"); got != "42,43" {
		t.Errorf("getEnv() = %q, want 42,43", got)
	}
}

func TestParsePids(t *testing.T) {
	cases := []struct {
		in      string
		want    []procinfo.ProcessID
		wantErr bool
	}{
		{"1,42,99", []procinfo.ProcessID{1, 42, 99}, false},
		{" 1 , 42 ", []procinfo.ProcessID{1, 42}, false},
		{"1,,2", []procinfo.ProcessID{1, 2}, false},
		{"", nil, false},
		{"1,abc", nil, true},
	}
	for _, tc := range cases {
		got, err := parsePids(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parsePids(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parsePids(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
