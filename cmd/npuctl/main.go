// npuctl - host-side control tool for the NPU-253 pattern coprocessor
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/patternlang/npu253/config"
	"github.com/patternlang/npu253/npu"
	"github.com/patternlang/npu253/npu/wire"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cfgPath := flag.String("c", "", "Device configuration file (TOML)")
	verbosity := flag.Int("v", 0, "Log verbosity (0=quiet, 1=info, 2=debug)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: npuctl [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Drives a simulated NPU-253 pattern coprocessor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  probe                    Probe the device and load the corpus\n")
		fmt.Fprintf(os.Stderr, "  selftest                 Run the self-test suite\n")
		fmt.Fprintf(os.Stderr, "  query <id>               Look up a pattern by id\n")
		fmt.Fprintf(os.Stderr, "  name <pattern name>      Look up a pattern by name\n")
		fmt.Fprintf(os.Stderr, "  search <text>            Full-text search\n")
		fmt.Fprintf(os.Stderr, "  transform <id> <domain>  Instantiate an archetypal pattern\n")
		fmt.Fprintf(os.Stderr, "  preceding <id>           List patterns linked as preceding\n")
		fmt.Fprintf(os.Stderr, "  following <id>           List patterns linked as following\n")
		fmt.Fprintf(os.Stderr, "  sequence <id>            List a sequence's member patterns\n")
		fmt.Fprintf(os.Stderr, "  category <name>          List a category's patterns\n")
		fmt.Fprintf(os.Stderr, "  raw <text>               Text search through raw registers and the window\n")
		fmt.Fprintf(os.Stderr, "  status                   Print the status register\n")
		fmt.Fprintf(os.Stderr, "  telemetry                Print the statistics snapshot\n")
		fmt.Fprintf(os.Stderr, "  diag                     Print the hardware diagnostics block\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  npuctl query 61                  # Small Public Squares\n")
		fmt.Fprintf(os.Stderr, "  npuctl search \"town square\"\n")
		fmt.Fprintf(os.Stderr, "  npuctl transform apl_001 social\n")
		fmt.Fprintf(os.Stderr, "  npuctl -c npu253.toml diag\n")
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := npu.DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	d := npu.NewDevice(cfg)
	command, args := args[0], args[1:]

	// probe brings the device up itself; everything else initializes
	// first so queries run against a warm, self-tested device.
	if command == "probe" {
		if !d.Probe() {
			fmt.Fprintf(os.Stderr, "Error: probe failed: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		fmt.Printf("NPU-253 present, %d patterns loaded\n", d.Read32(npu.RegPatternCount))
		return
	}

	if !d.Initialize() {
		fmt.Fprintf(os.Stderr, "Error: device initialization failed: %s\n", d.ErrorCode())
		os.Exit(1)
	}

	switch command {
	case "selftest":
		// Initialize already ran the suite once; run it again explicitly
		// so the command reports the current state.
		if !d.SendCommand(npu.CmdSelfTest) {
			fmt.Fprintln(os.Stderr, "self-test FAILED")
			os.Exit(1)
		}
		fmt.Println("self-test passed")

	case "query":
		id := intArg(args, "query <id>")
		p, ok := d.QueryByID(id)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printPattern(p)

	case "name":
		p, ok := d.QueryByName(stringArg(args, "name <pattern name>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printPattern(p)

	case "search":
		results, ok := d.QueryByText(stringArg(args, "search <text>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printList(results)
		fmt.Printf("%d patterns\n", len(results))

	case "transform":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: npuctl transform <id> <domain>")
			os.Exit(2)
		}
		domain, ok := npu.ParseDomain(args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown domain %q (use physical, social, conceptual, or psychic)\n", args[1])
			os.Exit(2)
		}
		text, ok := d.Transform(args[0], domain)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		fmt.Println(text)

	case "preceding":
		results, ok := d.Preceding(intArg(args, "preceding <id>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printList(results)

	case "following":
		results, ok := d.Following(intArg(args, "following <id>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printList(results)

	case "sequence":
		results, ok := d.SequencePatterns(intArg(args, "sequence <id>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printList(results)

	case "category":
		results, ok := d.CategoryPatterns(stringArg(args, "category <name>"))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		printList(results)

	case "raw":
		// The same search as "search", but through the hardware protocol:
		// stage the string in the window, point the argument registers at
		// it, send the command, and decode the CBOR batch the device left
		// at the result address.
		text := stringArg(args, "raw <text>")
		const (
			queryAddr  = 0x100
			resultAddr = 0x800
		)
		w := d.Window()
		if err := w.WriteString(queryAddr, text); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		d.Write64(npu.RegQueryAddr, queryAddr)
		d.Write32(npu.RegQueryLen, uint32(len(text)))
		d.Write64(npu.RegResultAddr, resultAddr)
		if !d.SendCommand(npu.CmdQueryByText) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.ErrorCode())
			os.Exit(1)
		}
		data, err := w.Read(resultAddr, w.Size()-resultAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		batch, err := wire.UnmarshalBatch(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, e := range batch.Patterns {
			fmt.Printf("%4d  %s\n", e.ID, e.Name)
		}
		fmt.Printf("%d patterns (RESULT_COUNT=%d)\n", batch.Count, d.Read32(npu.RegResultCount))

	case "status":
		fmt.Println(d.StatusString())

	case "telemetry":
		out, err := json.MarshalIndent(d.Telemetry(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))

	case "diag":
		fmt.Println(d.Diagnostics())

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(2)
	}
}

// intArg parses the single integer argument of a command.
func intArg(args []string, usage string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: npuctl %s\n", usage)
		os.Exit(2)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %q is not a pattern id\n", args[0])
		os.Exit(2)
	}
	return id
}

// stringArg joins the remaining arguments into one string argument, so
// multi-word names work without quoting.
func stringArg(args []string, usage string) string {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: npuctl %s\n", usage)
		os.Exit(2)
	}
	return strings.Join(args, " ")
}

// printPattern renders one full pattern record.
func printPattern(p *npu.Pattern) {
	header := fmt.Sprintf("Pattern %d: %s", p.ID, p.Name)
	if p.Asterisks > 0 {
		header += " " + strings.Repeat("*", p.Asterisks)
	}
	fmt.Println(header)
	if p.Category != "" {
		fmt.Printf("Category: %s\n", p.Category)
	}
	for _, section := range []struct {
		label, text string
	}{
		{"Context", p.Context},
		{"Problem", p.ProblemSummary},
		{"Solution", p.Solution},
	} {
		if section.text != "" {
			fmt.Printf("\n%s: %s\n", section.label, section.text)
		}
	}
	if len(p.Preceding) > 0 {
		fmt.Printf("\nPreceding: %s\n", joinIDs(p.Preceding))
	}
	if len(p.Following) > 0 {
		fmt.Printf("Following: %s\n", joinIDs(p.Following))
	}
}

// printList renders a one-line-per-pattern result listing.
func printList(results []*npu.Pattern) {
	for _, p := range results {
		fmt.Printf("%4d  %s\n", p.ID, p.Name)
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
