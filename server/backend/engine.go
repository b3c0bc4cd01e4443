package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/driver"
	"github.com/mcrl2-go/symbolic/parsing"
	"github.com/mcrl2-go/symbolic/serialize"
	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/serr"
	"github.com/mcrl2-go/symbolic/specio"
	"github.com/mcrl2-go/symbolic/translate"
)

func newBuilder() *parsing.Builder {
	return parsing.NewBuilder()
}

// ReduceOutcome is the result of running the alphabet-reduction driver over
// a stored process-spec document.
type ReduceOutcome struct {
	Report   string
	Stable   bool
	Warnings []string
}

// Reduce loads the process-spec document with the given ID, runs the
// alphabet-reduction driver over it, and caches the resulting report so a
// later request for the same document does not have to recompute it.
func (svc Service) Reduce(ctx context.Context, docID uuid.UUID) (ReduceOutcome, error) {
	doc, err := svc.DB.Documents().GetByID(ctx, docID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return ReduceOutcome{}, serr.ErrNotFound
		}
		return ReduceOutcome{}, serr.WrapDB("could not retrieve document", err)
	}
	if doc.Kind != dao.KindProcessSpec {
		return ReduceOutcome{}, serr.New("document is not a process specification", serr.ErrBadArgument)
	}

	b := newBuilder()
	spec, err := specio.ParseProcessSpec(b, []byte(doc.Source))
	if err != nil {
		return ReduceOutcome{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	var logBuf bytes.Buffer
	diag := diagnostics.NewSink(&logBuf)
	result, err := driver.Run(b.Arena, spec, svc.Engine.Driver, diag)
	if err != nil {
		return ReduceOutcome{}, serr.New(err.Error())
	}

	var lines []string
	lines = append(lines, serialize.FormatProcess(result.Spec.Init))
	for _, eq := range result.Spec.Equations {
		alpha := result.Alphabets[eq.Name]
		names := make([]string, len(alpha))
		for i, m := range alpha {
			if len(m.Actions) > 0 {
				names[i] = m.Actions[0].Label.Name
			}
		}
		lines = append(lines, fmt.Sprintf("%s: {%s}", eq.Name, strings.Join(names, ", ")))
	}
	report := strings.Join(lines, "\n")

	outcome := ReduceOutcome{Report: report, Stable: result.Stable, Warnings: diag.Warnings()}

	_, putErr := svc.DB.Results().Put(ctx, dao.Result{
		DocumentID: docID,
		Snapshot:   []byte(report),
		Stable:     result.Stable,
	})
	if putErr != nil {
		return outcome, serr.WrapDB("could not cache reduce result", putErr)
	}
	return outcome, nil
}

// CachedReduce returns the last Reduce outcome computed for docID, without
// recomputing it.
func (svc Service) CachedReduce(ctx context.Context, docID uuid.UUID) (ReduceOutcome, error) {
	res, err := svc.DB.Results().GetByDocumentID(ctx, docID, "")
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return ReduceOutcome{}, serr.ErrNotFound
		}
		return ReduceOutcome{}, serr.WrapDB("could not retrieve cached result", err)
	}
	return ReduceOutcome{Report: string(res.Snapshot), Stable: res.Stable}, nil
}

// TranslateOutcome is the result of translating a formula against a stored
// linear-process document.
type TranslateOutcome struct {
	PBES     string
	Warnings []string
}

// Translate loads the linear-process document with the given ID, translates
// formula against it, and caches the resulting PBES snapshot keyed by both
// the document and the formula text.
func (svc Service) Translate(ctx context.Context, docID uuid.UUID, formula string) (TranslateOutcome, error) {
	doc, err := svc.DB.Documents().GetByID(ctx, docID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return TranslateOutcome{}, serr.ErrNotFound
		}
		return TranslateOutcome{}, serr.WrapDB("could not retrieve document", err)
	}
	if doc.Kind != dao.KindLinearProc {
		return TranslateOutcome{}, serr.New("document is not a linear process", serr.ErrBadArgument)
	}

	b := newBuilder()
	lps, err := specio.ParseLinearProcess(b, []byte(doc.Source))
	if err != nil {
		return TranslateOutcome{}, serr.New(err.Error(), serr.ErrBadArgument)
	}
	phi, err := parsing.ParseStateFormula(b, formula)
	if err != nil {
		return TranslateOutcome{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	var logBuf bytes.Buffer
	diag := diagnostics.NewSink(&logBuf)
	pbes, err := translate.Translate(b.Arena, phi, lps, svc.Engine.Translate, diag)
	if err != nil {
		return TranslateOutcome{}, serr.New(err.Error())
	}

	snapshot := serialize.EncodeSnapshot(pbes, diag.Warnings(), nil)
	_, putErr := svc.DB.Results().Put(ctx, dao.Result{
		DocumentID: docID,
		Formula:    formula,
		Snapshot:   snapshot,
	})
	if putErr != nil {
		return TranslateOutcome{}, serr.WrapDB("could not cache translate result", putErr)
	}

	return TranslateOutcome{PBES: serialize.FormatPBES(pbes), Warnings: diag.Warnings()}, nil
}

// CachedTranslate returns the last Translate outcome computed for docID and
// formula, without recomputing it.
func (svc Service) CachedTranslate(ctx context.Context, docID uuid.UUID, formula string) (TranslateOutcome, error) {
	res, err := svc.DB.Results().GetByDocumentID(ctx, docID, formula)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return TranslateOutcome{}, serr.ErrNotFound
		}
		return TranslateOutcome{}, serr.WrapDB("could not retrieve cached result", err)
	}
	text, warnings, _, err := serialize.DecodeSnapshot(res.Snapshot)
	if err != nil {
		return TranslateOutcome{}, serr.New(err.Error())
	}
	return TranslateOutcome{PBES: text, Warnings: warnings}, nil
}
