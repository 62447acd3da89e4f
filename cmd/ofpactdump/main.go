// Command ofpactdump decodes a hex dump of an OpenFlow action or
// instruction list and prints the canonical flow dump form.
//
//	$ ofpactdump --version 10 '00 00 00 08 00 01 ff ff'
//	actions=output:1
//
// The hex bytes come from the arguments, or from stdin when no
// arguments are given. Instruction lists need --instructions; dialect
// knobs load from a YAML profile via --dialect.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/netrack/ofpact"
	"github.com/netrack/ofpact/nxm"
)

func main() {
	var (
		version      = pflag.Int("version", 10, "wire version of the dump: 10, 11 or 13")
		instructions = pflag.BoolP("instructions", "i", false, "decode an instruction list")
		dialectPath  = pflag.StringP("dialect", "d", "", "YAML dialect profile")
		check        = pflag.Bool("check", false, "context-check the result against an empty flow")
		maxPorts     = pflag.Int("max-ports", int(ofpact.PortMax), "datapath port count for --check")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ofpactdump"})

	dialect := &ofpact.Dialect{}
	if *dialectPath != "" {
		raw, err := os.ReadFile(*dialectPath)
		if err != nil {
			logger.Fatal("read dialect profile", "err", err)
		}
		if err := yaml.Unmarshal(raw, dialect); err != nil {
			logger.Fatal("parse dialect profile", "err", err)
		}
	}

	data, err := readHex(pflag.Args())
	if err != nil {
		logger.Fatal("parse hex input", "err", err)
	}

	var acts ofpact.Actions
	switch {
	case *instructions:
		acts, err = dialect.DecodeInstructions(data)
	case *version == 10:
		acts, err = dialect.DecodeActions10(data)
	case *version == 11 || *version == 13:
		acts, err = dialect.DecodeActions11(data)
	default:
		logger.Fatal("unsupported wire version", "version", *version)
	}
	if err != nil {
		logger.Fatal("decode", "err", err)
	}

	if *check {
		if err := ofpact.Check(acts, &nxm.Flow{}, *maxPorts); err != nil {
			logger.Error("context check", "err", err)
		}
	}

	fmt.Println(acts)
}

// readHex assembles the hex bytes from the arguments, or from stdin
// when there are none. Whitespace is ignored.
func readHex(args []string) ([]byte, error) {
	text := strings.Join(args, "")
	if text == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		text = string(raw)
	}

	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(" \t\r\n", r) {
			return -1
		}
		return r
	}, text)

	return hex.DecodeString(text)
}
