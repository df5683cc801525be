package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// File is a recorded trace together with the program that produced it.
//
// On disk it is JSON:
//
//	{
//	  "binary": "/usr/local/bin/tree",
//	  "arguments": "-L 2",
//	  "branch_history": [{"0x100007f09": 1}, {"0x100007f30": 0}]
//	}
type File struct {
	Binary    string
	Arguments string
	History   Trace
}

type fileJSON struct {
	Binary        string            `json:"binary"`
	Arguments     string            `json:"arguments"`
	BranchHistory []json.RawMessage `json:"branch_history"`
}

// Load reads a trace file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open trace file")
	}
	defer f.Close()

	file, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "trace file %s", path)
	}
	return file, nil
}

// Decode parses a trace file. Any malformed element fails the whole decode.
func Decode(r io.Reader) (*File, error) {
	var raw fileJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse trace")
	}

	history := make(Trace, 0, len(raw.BranchHistory))
	for i, msg := range raw.BranchHistory {
		b, err := decodeBranch(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "branch_history[%d]", i)
		}
		history = append(history, b)
	}

	return &File{
		Binary:    raw.Binary,
		Arguments: raw.Arguments,
		History:   history,
	}, nil
}

func decodeBranch(msg json.RawMessage) (Branch, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(msg, &entry); err != nil {
		return Branch{}, errors.Wrapf(ErrMalformedTraceElement, "not an object: %s", msg)
	}
	if len(entry) != 1 {
		return Branch{}, errors.Wrapf(ErrMalformedTraceElement,
			"want exactly one address, got %d", len(entry))
	}

	var b Branch
	for addrText, value := range entry {
		addr, err := ParseAddress(addrText)
		if err != nil {
			return Branch{}, err
		}
		taken, err := ParseOutcome(value)
		if err != nil {
			return Branch{}, errors.Wrapf(err, "address %s", addrText)
		}
		b = Branch{Address: addr, Taken: taken}
	}
	return b, nil
}

// Encode writes the file as JSON. Outcomes are written as 0 and 1.
func (f *File) Encode(w io.Writer) error {
	raw := fileJSON{
		Binary:        f.Binary,
		Arguments:     f.Arguments,
		BranchHistory: make([]json.RawMessage, 0, len(f.History)),
	}

	for _, b := range f.History {
		taken := 0
		if b.Taken {
			taken = 1
		}
		msg, err := json.Marshal(map[string]int{FormatAddress(b.Address): taken})
		if err != nil {
			return errors.Wrap(err, "failed to serialize branch")
		}
		raw.BranchHistory = append(raw.BranchHistory, msg)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return errors.Wrap(err, "failed to serialize trace")
	}
	return nil
}

// Save writes the file to disk.
func (f *File) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create trace file")
	}

	w := bufio.NewWriter(out)
	if err := f.Encode(w); err != nil {
		_ = out.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = out.Close()
		return errors.Wrap(err, "failed to write trace file")
	}
	return out.Close()
}
