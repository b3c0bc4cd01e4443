// Package serialize implements the PBES/process serializer: a
// pretty-printed text dump for terminals and
// logs, and a binary codec used to cache a PBES or an alphabet snapshot
// between requests (server/dao/sqlite persists the bytes this package
// produces). Concrete mCRL2 surface syntax is not reproduced here; the
// output is meant to be read by a human, not re-parsed by the core.
package serialize

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"

	"github.com/mcrl2-go/symbolic/ast"
)

// stringSlice is []string wrapped so it can be used as the value type of a
// rezi.EncMapStringToBinary/DecMapStringToBinary map (EquationLog below).
type stringSlice []string

func (s stringSlice) MarshalBinary() ([]byte, error) {
	return rezi.EncSliceString([]string(s)), nil
}

func (s *stringSlice) UnmarshalBinary(data []byte) error {
	sl, _, err := rezi.DecSliceString(data)
	if err != nil {
		return err
	}
	*s = stringSlice(sl)
	return nil
}

// WrapWidth is the default column width FormatPBES wraps long lines to,
// matching diagnostics.Sink's default.
const WrapWidth = 78

// FormatPBES renders p as an indented, line-wrapped block of text via
// rosed.Edit(...).Wrap(...) instead of a bare String().
func FormatPBES(p *ast.PBES) string {
	var sb []string
	sb = append(sb, "pbes")
	for _, eq := range p.Equations {
		line := fmt.Sprintf("  %s %s;", eq.Symbol, eq.Var.String())
		sb = append(sb, rosed.Edit(line).Wrap(WrapWidth).String())
		body := rosed.Edit("    = " + eq.Body.String()).Wrap(WrapWidth).String()
		sb = append(sb, body)
	}
	sb = append(sb, rosed.Edit(fmt.Sprintf("init %s;", p.Init.String())).Wrap(WrapWidth).String())

	out := sb[0]
	for _, line := range sb[1:] {
		out += "\n" + line
	}
	return out
}

// FormatProcess renders a process term the same way, for diagnostics that
// need to show an intermediate alphabet-reduction result.
func FormatProcess(p *ast.Process) string {
	return rosed.Edit(p.String()).Wrap(WrapWidth).String()
}

// snapshot is the rezi-encodable shape of a cached translation result
// (server/dao/sqlite stores the EncodeSnapshot bytes directly). DataExpr and
// Process are opaque to the rest of the core, so the snapshot keeps only
// their String() form: good enough to redisplay a cached result, not to
// resume computing over it; the rewriter and concrete parsing stay
// external.
type snapshot struct {
	Equations   []equationSnapshot
	Init        string
	Warnings    []string
	EquationLog map[string][]string // equation name -> pretty alphabet
}

type equationSnapshot struct {
	Symbol string
	Name   string
	Params []string
	Body   string
}

func (eq *equationSnapshot) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncString(eq.Symbol)...)
	enc = append(enc, rezi.EncString(eq.Name)...)
	enc = append(enc, rezi.EncSliceString(eq.Params)...)
	enc = append(enc, rezi.EncString(eq.Body)...)
	return enc, nil
}

func (eq *equationSnapshot) UnmarshalBinary(data []byte) error {
	symbol, n, err := rezi.DecString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	name, n, err := rezi.DecString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	params, n, err := rezi.DecSliceString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	body, _, err := rezi.DecString(data)
	if err != nil {
		return err
	}

	eq.Symbol = symbol
	eq.Name = name
	eq.Params = params
	eq.Body = body
	return nil
}

func (s *snapshot) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncSliceBinary(toEquationSnapshotPtrs(s.Equations))...)
	enc = append(enc, rezi.EncString(s.Init)...)
	enc = append(enc, rezi.EncSliceString(s.Warnings)...)
	enc = append(enc, rezi.EncMapStringToBinary(toStringSliceMap(s.EquationLog))...)
	return enc, nil
}

func (s *snapshot) UnmarshalBinary(data []byte) error {
	eqPtrs, n, err := rezi.DecSliceBinary[*equationSnapshot](data)
	if err != nil {
		return err
	}
	data = data[n:]

	init, n, err := rezi.DecString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	warnings, n, err := rezi.DecSliceString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	eqLog, _, err := rezi.DecMapStringToBinary[*stringSlice](data)
	if err != nil {
		return err
	}

	s.Equations = fromEquationSnapshotPtrs(eqPtrs)
	s.Init = init
	s.Warnings = warnings
	s.EquationLog = fromStringSlicePtrMap(eqLog)
	return nil
}

func toEquationSnapshotPtrs(eqs []equationSnapshot) []*equationSnapshot {
	out := make([]*equationSnapshot, len(eqs))
	for i := range eqs {
		out[i] = &eqs[i]
	}
	return out
}

func fromEquationSnapshotPtrs(eqs []*equationSnapshot) []equationSnapshot {
	if eqs == nil {
		return nil
	}
	out := make([]equationSnapshot, len(eqs))
	for i, eq := range eqs {
		out[i] = *eq
	}
	return out
}

func toStringSliceMap(m map[string][]string) map[string]stringSlice {
	if m == nil {
		return nil
	}
	out := make(map[string]stringSlice, len(m))
	for k, v := range m {
		out[k] = stringSlice(v)
	}
	return out
}

func fromStringSlicePtrMap(m map[string]*stringSlice) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = []string(*v)
	}
	return out
}

// EncodeSnapshot serializes p (and any driver warnings/alphabets worth
// caching alongside it) to a binary blob via rezi, for storage by
// server/dao/sqlite between an introspection request and the next.
func EncodeSnapshot(p *ast.PBES, warnings []string, alphabets map[string][]string) []byte {
	snap := snapshot{
		Init:        p.Init.String(),
		Warnings:    append([]string(nil), warnings...),
		EquationLog: alphabets,
	}
	for _, eq := range p.Equations {
		params := make([]string, len(eq.Var.Params))
		for i, prm := range eq.Var.Params {
			params[i] = fmt.Sprintf("%s: %s", prm.Name, prm.VSort.String())
		}
		snap.Equations = append(snap.Equations, equationSnapshot{
			Symbol: eq.Symbol.String(),
			Name:   eq.Var.Name,
			Params: params,
			Body:   eq.Body.String(),
		})
	}
	return rezi.EncBinary(&snap)
}

// DecodeSnapshot reconstructs the textual snapshot written by
// EncodeSnapshot. It does not rebuild an *ast.PBES (the snapshot is a
// read-only cache entry, not a re-entrant term), returning instead a
// human/HTTP-displayable rendering plus the recorded warnings and alphabet
// log.
func DecodeSnapshot(data []byte) (text string, warnings []string, alphabets map[string][]string, err error) {
	var snap snapshot
	n, decErr := rezi.DecBinary(data, &snap)
	if decErr != nil {
		return "", nil, nil, fmt.Errorf("serialize: REZI decode: %w", decErr)
	}
	if n != len(data) {
		return "", nil, nil, fmt.Errorf("serialize: decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}

	lines := []string{"pbes"}
	for _, eq := range snap.Equations {
		lines = append(lines, fmt.Sprintf("  %s %s(%s) = %s;", eq.Symbol, eq.Name, joinComma(eq.Params), eq.Body))
	}
	lines = append(lines, fmt.Sprintf("init %s;", snap.Init))

	rendered := lines[0]
	for _, l := range lines[1:] {
		rendered += "\n" + rosed.Edit(l).Wrap(WrapWidth).String()
	}
	return rendered, snap.Warnings, snap.EquationLog, nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
