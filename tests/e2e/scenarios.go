package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/command"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

const chatLog = `{"kind":"UserMessage","text":"How many users signed up today?"}
{"kind":"AgentInnerDialog","text":"I should query the signups table"}
{"kind":"AgentGraphQLQuery","text":"  query {\n    signups(day: TODAY) { count }\n  }"}
{"kind":"AgentGraphQLResult","text":"{\"data\":{\"signups\":{\"count\":42}}}"}
{"kind":"AgentJSON","text":"json{'count': 42, 'source': 'signups'}"}
not an event
{"kind":"AgentWarning","text":"Counts may lag by a few minutes"}
{"kind":"AgentMessage","text":"42 users signed up today.","disableTyping":true}
`

// setupChatLog writes a chat event log to a fresh directory.
func setupChatLog(ctx *harness.Context) error {
	dir := ctx.NewDir("chat")
	if err := fs.CreateDir(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, "chat.jsonl")
	if err := fs.WriteString(path, chatLog); err != nil {
		return fmt.Errorf("failed to write chat.jsonl: %w", err)
	}

	// A local config file keeps the scenario independent of any grove.yml.
	configPath := filepath.Join(dir, "agchat.yml")
	if err := fs.WriteString(configPath, "render:\n  disable_typing: true\n"); err != nil {
		return err
	}

	ctx.Set("chat_log", path)
	ctx.Set("config_file", configPath)
	return nil
}

// AgchatRenderScenario tests the 'agchat render' command
func AgchatRenderScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "agchat-render-command",
		Steps: []harness.Step{
			harness.NewStep("Setup chat log", setupChatLog),
			harness.NewStep("Run 'agchat render'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "render", ctx.GetString("chat_log"),
					"--no-typing", "--config-file", ctx.GetString("config_file"))
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "agchat render should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "How many users signed up today?", "Should show the user message"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "GraphQL Query", "Should label the query block"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Query Result", "Should label the result block"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, `"source": "signups"`, "Should recover single-quoted JSON"); err != nil {
					return err
				}
				if err := assert.NotContains(result.Stdout, "not an event", "Should skip malformed lines"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "42 users signed up today.", "Should show the agent message")
			}),
			harness.NewStep("Run 'agchat render --kind AgentWarning'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "render", ctx.GetString("chat_log"),
					"--kind", "AgentWarning", "--config-file", ctx.GetString("config_file"))
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "agchat render --kind should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Counts may lag", "Should show the warning"); err != nil {
					return err
				}
				return assert.NotContains(result.Stdout, "How many users", "Should hide other kinds")
			}),
			harness.NewStep("Reject unknown kinds", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "render", ctx.GetString("chat_log"), "--kind", "AgentShout")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode == 0 {
					return fmt.Errorf("expected agchat render --kind AgentShout to fail")
				}
				return nil
			}),
		},
	}
}

// AgchatNormalizeScenario tests the 'agchat normalize' command
func AgchatNormalizeScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "agchat-normalize-command",
		Steps: []harness.Step{
			harness.NewStep("Normalize single-quoted JSON", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "normalize", "--json", "json{'a': 1}")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode != 0 {
					return fmt.Errorf("agchat normalize failed: %s", result.Stderr)
				}

				var out struct {
					Text string `json:"text"`
					Step string `json:"step"`
				}
				if err := json.Unmarshal([]byte(result.Stdout), &out); err != nil {
					return fmt.Errorf("failed to parse JSON output: %w", err)
				}
				if err := assert.Equal("single_quote", out.Step, "Should report the single-quote step"); err != nil {
					return err
				}
				return assert.Equal("{\n  \"a\": 1\n}", out.Text, "Should pretty-print with two-space indent")
			}),
			harness.NewStep("Leave prose unchanged", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "normalize", "--step", "hello world")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode != 0 {
					return fmt.Errorf("agchat normalize failed: %s", result.Stderr)
				}
				if err := assert.Contains(result.Stdout, "[unchanged]", "Should report the fallback step"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "hello world", "Should print the text as-is")
			}),
		},
	}
}

// AgchatVersionScenario tests the 'agchat version' command
func AgchatVersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "agchat-version-command",
		Steps: []harness.Step{
			harness.NewStep("Run 'agchat version'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				cmd := command.New(bin, "version")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				return assert.Equal(0, result.ExitCode, "agchat version should exit successfully")
			}),
		},
	}
}
