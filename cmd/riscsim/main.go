// Command riscsim is the host embedder for the CPU simulator: it loads a
// pre-assembled word image, runs it (or single-steps it under the TUI
// debugger), and reports the cost tracker's findings.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Stasiu51/RISCMachine/cost"
	"github.com/Stasiu51/RISCMachine/cpu"
	"github.com/Stasiu51/RISCMachine/mem"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var maxInstructions int
	var asJSON bool

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a word image and run it to completion or an instruction ceiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			image, err := loadImage(args[0])
			if err != nil {
				return err
			}
			log.Info("image loaded", "path", args[0], "words", len(image))

			m := mem.New()
			m.LoadImage(image)
			c := cpu.New(m)
			tracker, detach := cost.Attach(m.Events)
			defer detach()

			defer func() {
				if r := recover(); r != nil {
					log.Error("simulation panicked", "pc", c.Regs.PC, "word", m.PeekRAM(c.Regs.PC), "recovered", r)
					err = fmt.Errorf("riscsim: panic at pc %#04x: %v", c.Regs.PC, r)
				}
			}()

			executed, runErr := c.Run(maxInstructions)
			if runErr != nil {
				var bad *cpu.BadInstructionError
				if errors.As(runErr, &bad) {
					log.Error("bad instruction", "word", bad.Word, "pc", bad.PC)
				}
				return runErr
			}
			if maxInstructions > 0 && executed >= maxInstructions && c.Regs.Running {
				log.Warn("instruction ceiling reached", "max_instructions", maxInstructions)
			} else {
				log.Info("halted", "instructions_executed", executed)
			}

			return printReport(tracker.Report(), asJSON)
		},
	}
	runCmd.Flags().IntVar(&maxInstructions, "max-instructions", 0, "Stop after this many instructions (0 = unbounded)")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "Print the cost report as JSON")

	debugCmd := &cobra.Command{
		Use:   "debug <image>",
		Short: "Load a word image and single-step it under the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := loadImage(args[0])
			if err != nil {
				return err
			}
			log.Info("image loaded", "path", args[0], "words", len(image))

			m := mem.New()
			m.LoadImage(image)
			c := cpu.New(m)
			return cpu.Debug(c)
		},
	}

	rootCmd := &cobra.Command{
		Use:   "riscsim",
		Short: "Simulator for the 32-bit RISC core with unified memory and a tree-PLRU cache",
	}
	rootCmd.AddCommand(runCmd, debugCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error("riscsim failed", "error", err)
		os.Exit(1)
	}
}

// loadImage reads one hex word per line, skipping blank lines and
// #-prefixed comments.
func loadImage(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("riscsim: opening image: %w", err)
	}
	defer f.Close()

	var image []uint32
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("riscsim: %s:%d: %w", path, lineNo, err)
		}
		image = append(image, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("riscsim: reading image: %w", err)
	}
	return image, nil
}

func printReport(r cost.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Printf("total_ns: %d\ncache_locations_used: %d\nram_locations_used: %d\n",
		r.TotalNs, r.CacheLocationsUsed, r.RamLocationsUsed)
	return nil
}
