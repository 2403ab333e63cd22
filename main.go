/*
 * S370 - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/rrmem/command/debugger"
	"github.com/rcornwell/rrmem/emu/scheduler"
	"github.com/rcornwell/rrmem/emu/trace"
	"github.com/rcornwell/rrmem/emu/workload"
	"github.com/rcornwell/rrmem/tui"
	"github.com/rcornwell/rrmem/util/logger"
)

var Logger *slog.Logger

func main() {
	optFile := getopt.StringLong("file", 'f', "", "Workload file to load")
	optLogFile := getopt.StringLong("log", 'l', "", "Diagnostic log file")
	optInteractive := getopt.BoolLong("interactive", 'i', "Step through the simulation with an interactive debugger")
	optVisualize := getopt.BoolLong("visualize", 'v', "Show a live memory/queue view alongside the trace")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if optLogFile != nil && *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("rrmem: could not create log file: " + err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(Logger)

	if optFile == nil || *optFile == "" {
		Logger.Error("rrmem: please specify a workload file with -f")
		os.Exit(1)
	}

	in, err := os.Open(*optFile)
	if err != nil {
		Logger.Error("rrmem: cannot open workload file: " + err.Error())
		os.Exit(1)
	}
	defer in.Close()

	cfg, jobs, err := workload.Parse(in)
	if err != nil {
		Logger.Error("rrmem: malformed workload file: " + err.Error())
		os.Exit(1)
	}

	tr := trace.New(os.Stdout)
	sched := scheduler.New(cfg.MaxMemory, cfg.CPUAllocated, cfg.SwitchTime, jobs, tr.Emit)

	sched.AdmitInitialBatch()
	tr.DumpMemory(sched.Memory())

	switch {
	case *optVisualize:
		if err := tui.Run(sched); err != nil {
			Logger.Error("rrmem: tui: " + err.Error())
			os.Exit(1)
		}
		tr.Final(sched.GlobalClock())

	case *optInteractive:
		debugger.Run(sched, tr.Emit)
		tr.Final(sched.Run())

	default:
		total := sched.Run()
		tr.Final(total)
	}
}
