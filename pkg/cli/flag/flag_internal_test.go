package flag

import (
	"testing"

	"github.com/ghaup/ghaup/pkg/log"
	"github.com/sirupsen/logrus"
)

func TestValidateLogLevel(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		level string
		isErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "empty", level: ""},
		{name: "upper case", level: "WARN"},
		{name: "invalid", level: "verbose", isErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			err := validateLogLevel(d.level)
			if d.isErr {
				if err == nil {
					t.Fatal("error must be returned")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestGlobalFlags_Apply(t *testing.T) {
	t.Parallel()
	logE := log.New("v1.0.0")
	gf := &GlobalFlags{LogLevel: "debug"}
	gf.Apply(logE)
	if logE.Logger.Level != logrus.DebugLevel {
		t.Fatalf("wanted debug, got %s", logE.Logger.Level)
	}
}

func TestGlobalFlags_ConfigFile(t *testing.T) {
	t.Parallel()
	data := []struct {
		name   string
		config string
		arg    string
		exp    string
	}{
		{name: "argument", config: "a.yaml", arg: "b.yaml", exp: "b.yaml"},
		{name: "flag", config: "a.yaml", exp: "a.yaml"},
		{name: "none", exp: ""},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			gf := &GlobalFlags{Config: d.config}
			if got := gf.ConfigFile(d.arg); got != d.exp {
				t.Fatalf("wanted %q, got %q", d.exp, got)
			}
		})
	}
}
