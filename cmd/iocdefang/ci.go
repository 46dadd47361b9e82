package iocdefang

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const ciScanStep = "iocdefang scan --sarif --fail-on-match > iocdefang.sarif"

var ciTemplates = map[string]struct{ path, content string }{
	"github": {".github/workflows/iocdefang.yml", `name: iocdefang
on: [push, pull_request]
jobs:
  scan:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25'
      - run: go install github.com/iocdefang/iocdefang@latest
      - run: ` + ciScanStep + `
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: iocdefang.sarif
`},
	"gitlab": {".gitlab-ci.yml", `stages: [scan]
iocdefang:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/iocdefang/iocdefang@latest
    - ` + ciScanStep + `
  artifacts:
    when: always
    paths:
      - iocdefang.sarif
`},
	"bitbucket": {"bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: iocdefang scan
        image: golang:1.25
        script:
          - go install github.com/iocdefang/iocdefang@latest
          - ` + ciScanStep + `
        artifacts:
          - iocdefang.sarif
`},
	"azure": {"azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/iocdefang/iocdefang@latest
    ` + ciScanStep + `
  displayName: 'iocdefang scan'
- publish: iocdefang.sarif
  artifact: iocdefang-sarif
  condition: succeededOrFailed()
`},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider, dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template that fails when indicators are committed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[provider]
			if !ok {
				return fmt.Errorf("unknown --provider. Supported: github, gitlab, bitbucket, azure")
			}
			path := filepath.Join(dir, tpl.path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(tpl.content), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	initCmd.Flags().StringVar(&dir, "dir", ".", "repository root to write into")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}
