package store

import (
	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/ref"
)

// nop is the no-op sink backend: every insert succeeds and is discarded,
// every lookup reports NotFound. Used for dry-run indexing (-n) where the
// caller wants the AT's validation and diagnostics without persistence.
type nop struct{}

// OpenNop constructs the no-op sink Store.
func OpenNop() Store { return nop{} }

func (nop) AddFile(path string) (ref.Durable, error) { return ref.Durable(1), nil }

func (nop) FileLookup(id ref.Durable) (string, error) {
	return "", cerr.New(cerr.NotFound, "nop.FileLookup")
}

func (nop) TypeInsert(loc ref.SourceLocation, kind ref.TypeKind, complete bool) (ref.Durable, error) {
	return ref.Durable(1), nil
}

func (nop) TypeLookup(id ref.Durable) (model.Type, error) {
	return model.Type{}, cerr.New(cerr.NotFound, "nop.TypeLookup")
}

func (nop) TypenameLookup(loc ref.SourceLocation, name string, kind ref.NameKind) (ref.Durable, error) {
	return 0, cerr.New(cerr.NotFound, "nop.TypenameLookup")
}

func (nop) TypenameInsert(loc ref.SourceLocation, name string, kind ref.NameKind, base ref.Durable) error {
	return nil
}

func (nop) TypenameFind(namePattern string) (Cursor, error) {
	return &emptyCursor{}, nil
}

func (nop) MemberInsert(loc ref.SourceLocation, parent ref.Durable, base ref.Ref, name string) error {
	return nil
}

func (nop) MemberLookup(parent ref.Durable, name string) (model.Member, error) {
	return model.Member{}, cerr.New(cerr.NotFound, "nop.MemberLookup")
}

func (nop) TypeUseInsert(loc ref.SourceLocation, base ref.Durable, kind ref.UseKind) error {
	return nil
}

func (nop) Close() error    { return nil }
func (nop) ReadOnly() bool  { return false }

type emptyCursor struct{}

func (*emptyCursor) Next() bool        { return false }
func (*emptyCursor) Peek() TypenameRow { return TypenameRow{} }
func (*emptyCursor) Err() error        { return nil }
func (*emptyCursor) Free() error       { return nil }
