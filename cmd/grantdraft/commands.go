package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"grantdraft/internal/document"
	"grantdraft/internal/export"
	"grantdraft/internal/steps"

	"github.com/spf13/cobra"
)

func isCorrupt(err error) bool {
	return errors.Is(err, document.ErrCorrupt)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the workflow steps and their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, st := range s.ws.Progress() {
			marker := "  "
			if st.Active {
				marker = "👉"
			}
			done := "  "
			if st.Satisfied {
				done = "✅"
			}
			fmt.Printf("%s %s %d. %s (%s)\n", marker, done, st.Index+1, st.Step.Title, st.Step.ID)
			fmt.Printf("        %s\n", st.Step.Description)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <step-id|number>",
	Short: "Set the active step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if n, convErr := strconv.Atoi(args[0]); convErr == nil {
			err = s.ws.SelectStep(n - 1)
		} else {
			id, parseErr := steps.ParseID(args[0])
			if parseErr != nil {
				return parseErr
			}
			err = s.ws.SelectStepID(id)
		}
		if err != nil {
			return err
		}
		if err := s.ws.Save(ctx); err != nil {
			return err
		}

		step, _ := s.ws.CurrentStep()
		fmt.Printf("👉 Active step: %s\n", step.Title)
		fmt.Printf("   %s\n", step.Placeholder)
		return nil
	},
}

var generateStep string

var generateCmd = &cobra.Command{
	Use:   "generate [context...]",
	Short: "Generate the active step's section",
	Long: `Generate the active step's section and merge it into the draft.
Context is taken from the arguments, or from stdin when it is piped.
Past the first step an empty context falls back to the draft so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		input, err := readInput(args)
		if err != nil {
			return err
		}

		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.Close()

		if generateStep != "" {
			id, err := steps.ParseID(generateStep)
			if err != nil {
				return err
			}
			if err := s.ws.SelectStepID(id); err != nil {
				return err
			}
		}
		s.ws.SetInput(input)

		step, err := s.ws.CurrentStep()
		if err != nil {
			return err
		}
		fmt.Printf("🚀 Generating %q...\n", step.Title)

		res, genErr := s.ws.Generate(ctx)
		// the active step moves on issue, so save even on failure
		if err := s.ws.Save(ctx); err != nil {
			fmt.Printf("⚠️  %s\n", s.ws.Err())
		}
		if genErr != nil {
			fmt.Printf("❌ %s\n", s.ws.Err())
			return genErr
		}

		fmt.Printf("✅ %s generated in %v.\n\n", res.Step.Title, res.Duration.Round(time.Millisecond))
		fmt.Println(document.RenderSection(document.Section{Title: res.Step.Title, Content: res.Content}))
		if next, err := s.ws.CurrentStep(); err == nil && next.ID != res.Step.ID {
			fmt.Printf("\n👉 Next: %s\n", next.Title)
		}
		return nil
	},
}

// readInput joins args, or reads stdin when nothing was given and it is not a terminal.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the draft document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		doc := s.ws.Document()
		if doc == "" {
			fmt.Println("📄 The draft is empty. Run 'grantdraft generate' to start.")
			return nil
		}
		fmt.Println(doc)
		return nil
	},
}

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the draft to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		raw := exportFormat
		if raw == "" {
			raw = s.cfg.Export.Format
		}
		format, err := export.ParseFormat(raw)
		if err != nil {
			return err
		}

		art, err := s.ws.Export(ctx, format)
		if err != nil {
			fmt.Printf("❌ %s\n", s.ws.Err())
			return err
		}
		if notice := s.ws.Notice(); notice != "" {
			fmt.Printf("ℹ️  %s\n", notice)
			return nil
		}
		fmt.Printf("💾 Exported %s (%d bytes) to %s\n", art.Format, art.Bytes, art.Path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Replace the draft with sections from an exported Markdown file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.ws.Import(string(b))
		if err != nil {
			return err
		}
		if err := s.ws.Save(ctx); err != nil {
			return err
		}
		fmt.Printf("📥 Imported %d sections into draft %q.\n", n, draftName)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the draft and return to the first step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ws.Reset(); err != nil {
			return err
		}
		if err := s.ws.Save(ctx); err != nil {
			return err
		}
		fmt.Printf("🧹 Draft %q cleared.\n", draftName)
		return nil
	},
}

var deleteDraft string

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List stored drafts, or delete one with --delete",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if deleteDraft != "" {
			if err := s.store.DeleteDraft(ctx, deleteDraft); err != nil {
				return fmt.Errorf("failed to delete draft %q: %w", deleteDraft, err)
			}
			fmt.Printf("🗑️  Draft %q deleted.\n", deleteDraft)
			return nil
		}

		list, err := s.store.ListDrafts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list drafts: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("📭 No drafts saved yet.")
			return nil
		}
		for _, d := range list {
			marker := "  "
			if d.Name == draftName {
				marker = "👉"
			}
			if d.Corrupt {
				fmt.Printf("%s %-20s ⚠️  unreadable\n", marker, d.Name)
				continue
			}
			fmt.Printf("%s %-20s %d sections, step %d, updated %s\n",
				marker, d.Name, d.SectionCount, d.ActiveStep+1, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateStep, "step", "s", "", "Step to generate (abstract, hypothesis, methodology, data_simulation)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format: markdown or json (default from config)")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "Directory to write the export to (default from config)")
	draftsCmd.Flags().StringVar(&deleteDraft, "delete", "", "Name of a draft to delete")
}
