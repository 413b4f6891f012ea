package list

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/ghaup/ghaup/pkg/config"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const workflow = `jobs:
  build:
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@0a12ed9d6a96ab950c8f026ed9f722fe0da7ef32 # v5.0.2
      - uses: ./local
      - uses: suzuki-shunsuke/github-action-renovate-config-validator@v1.1.0
`

func TestController_List(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name  string
		param *Param
		exp   string
		isErr bool
	}{
		{
			name:  "csv",
			param: &Param{},
			exp: `ci.yaml,4,actions/checkout,v4,
ci.yaml,5,actions/setup-go,0a12ed9d6a96ab950c8f026ed9f722fe0da7ef32,v5.0.2
ci.yaml,7,suzuki-shunsuke/github-action-renovate-config-validator,v1.1.0,
`,
		},
		{
			name: "owner",
			param: &Param{
				Owner: "actions",
			},
			exp: `ci.yaml,4,actions/checkout,v4,
ci.yaml,5,actions/setup-go,0a12ed9d6a96ab950c8f026ed9f722fe0da7ef32,v5.0.2
`,
		},
		{
			name: "template",
			param: &Param{
				LineTemplate: "{{.RepoOwner}}/{{.RepoName}} {{.FileName}}:{{.LineNumber}}",
				Excludes:     []*regexp.Regexp{regexp.MustCompile("setup-go")},
			},
			exp: `actions/checkout ci.yaml:4
suzuki-shunsuke/github-action-renovate-config-validator ci.yaml:7
`,
		},
		{
			name: "include",
			param: &Param{
				Includes: []*regexp.Regexp{regexp.MustCompile("^suzuki-shunsuke/")},
			},
			exp: `ci.yaml,7,suzuki-shunsuke/github-action-renovate-config-validator,v1.1.0,
`,
		},
		{
			name: "invalid template",
			param: &Param{
				LineTemplate: "{{.RepoOwner",
			},
			isErr: true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "ci.yaml", []byte(workflow), 0o644); err != nil {
				t.Fatal(err)
			}
			d.param.WorkflowFilePaths = []string{"ci.yaml"}
			stdout := &bytes.Buffer{}
			ctrl := New(fs, &config.Config{}, d.param, stdout)
			err := ctrl.List(context.Background(), logrus.NewEntry(logrus.New()))
			if d.isErr {
				if err == nil {
					t.Fatal("error must be returned")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.exp, stdout.String()); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
