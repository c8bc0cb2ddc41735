package asm

import (
	"fmt"
	"sort"

	"hackasm/pkg/hack"

	"github.com/golang/glog"
)

type SymbolKind int

const (
	Predefined SymbolKind = iota
	Label
	Variable
)

func (k SymbolKind) String() string {
	switch k {
	case Predefined:
		return "predefined"
	case Label:
		return "label"
	case Variable:
		return "variable"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

type Symbol struct {
	Name    string
	Address int
	Kind    SymbolKind
}

// SymbolTable maps names to addresses for a single assembly run.
// It starts out holding the machine's predefined symbols.
type SymbolTable struct {
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{symbols: make(map[string]Symbol)}
	for name, addr := range hack.PredefinedSymbols() {
		t.symbols[name] = Symbol{Name: name, Address: addr, Kind: Predefined}
	}
	return t
}

// Define adds name. Names are never rebound, so defining one that already
// exists (including a predefined symbol) fails.
func (t *SymbolTable) Define(name string, addr int, kind SymbolKind) error {
	if prev, exists := t.symbols[name]; exists {
		return fmt.Errorf("%w '%s' already defined as %s %d", ErrDuplicateLabel, name, prev.Kind, prev.Address)
	}
	t.symbols[name] = Symbol{Name: name, Address: addr, Kind: kind}
	return nil
}

func (t *SymbolTable) Lookup(name string) (Symbol, error) {
	sym, ok := t.symbols[name]
	if !ok {
		return Symbol{}, fmt.Errorf("%w '%s'", ErrUndefinedSymbol, name)
	}
	return sym, nil
}

func (t *SymbolTable) Contains(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Symbols returns every entry ordered by address, then name.
func (t *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.symbols))
	for _, sym := range t.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Address != out[j].Address {
			return out[i].Address < out[j].Address
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SymbolResolver hands out addresses for symbolic operands during pass 2,
// allocating RAM to variables in the order they are first used.
type SymbolResolver struct {
	table *SymbolTable
	next  int

	// labelLimit is the number of instructions in the program. A label at
	// this address has no instruction to jump to.
	labelLimit int
}

func NewSymbolResolver(table *SymbolTable, programLen int) *SymbolResolver {
	return &SymbolResolver{
		table:      table,
		next:       hack.VariableBase,
		labelLimit: programLen,
	}
}

// Resolve returns the address of name, allocating a variable if the name
// has not been seen. R0..R15 bypass the table entirely.
//
// No check is made that variables stay clear of SCREEN/KBD or of literal
// addresses the program uses directly.
func (r *SymbolResolver) Resolve(name string) (int, error) {
	if addr, ok := hack.RegisterAlias(name); ok {
		return addr, nil
	}

	if sym, err := r.table.Lookup(name); err == nil {
		if sym.Kind == Label && sym.Address >= r.labelLimit {
			return 0, fmt.Errorf("%w '%s': label has no following instruction", ErrUndefinedSymbol, name)
		}
		return sym.Address, nil
	}

	addr := r.next
	if err := r.table.Define(name, addr, Variable); err != nil {
		return 0, err
	}
	r.next++
	glog.V(2).Infof("variable %q -> %d", name, addr)
	return addr, nil
}

// Allocated is the number of variables created so far.
func (r *SymbolResolver) Allocated() int {
	return r.next - hack.VariableBase
}
