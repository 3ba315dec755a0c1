package render

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/aslflow/pkg/api"
)

const arn = "arn:aws:lambda:eu-west-1:123456789012:function:work"

func pass(name string) *api.State { return api.NewPass(name, api.PassProps{}) }

func task(name string) *api.State { return api.NewTask(name, api.TaskProps{Resource: arn}) }

func succeed(name string) *api.State { return api.NewSucceed(name, api.SucceedProps{}) }

func renderString(t *testing.T, head api.Chainable, opts Options) string {
	t.Helper()
	doc, err := Render(head, opts)
	require.NoError(t, err)
	out, err := doc.JSON()
	require.NoError(t, err)
	return out
}

func requireConfigError(t *testing.T, err error, rule error) *api.ConfigurationError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, rule)
	var ce *api.ConfigurationError
	require.True(t, errors.As(err, &ce), "expected *api.ConfigurationError, got %T", err)
	return ce
}

func TestRender_LinearChain(t *testing.T) {
	chain := api.Start(pass("P1")).
		MustNext(api.NewTask("T1", api.TaskProps{Resource: "arn:..."})).
		MustNext(succeed("S1"))

	got := renderString(t, chain, Options{})
	want := `{"StartAt":"P1","States":{"P1":{"Type":"Pass","Next":"T1"},"T1":{"Type":"Task","Resource":"arn:...","Next":"S1"},"S1":{"Type":"Succeed"}}}`
	assert.Equal(t, want, got)
}

func TestRender_ChainOrderingEndsWithEnd(t *testing.T) {
	chain := api.Start(pass("A")).MustNext(pass("B")).MustNext(pass("C"))

	got := renderString(t, chain, Options{})
	want := `{"StartAt":"A","States":{"A":{"Type":"Pass","Next":"B"},"B":{"Type":"Pass","Next":"C"},"C":{"Type":"Pass","End":true}}}`
	assert.Equal(t, want, got)
}

func TestRender_IsDeterministic(t *testing.T) {
	check := api.NewChoice("Check", api.ChoiceProps{})
	done := succeed("Done")
	work := task("Work").AddCatch(api.NewPass("Recover", api.PassProps{}), api.CatchProps{})
	chain := api.Start(pass("Init")).MustNext(work).MustNext(check)
	check.When(api.BooleanEquals("$.again", true), work).Otherwise(done)

	first := renderString(t, chain, Options{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, renderString(t, chain, Options{}))
	}
}

func TestRender_ConcurrentRendersAgree(t *testing.T) {
	par := api.NewParallel("Fan", api.ParallelProps{}).
		Branch(api.Start(pass("A")).MustNext(pass("B"))).
		Branch(pass("C"))
	chain := api.Start(pass("Begin")).MustNext(par).MustNext(succeed("End"))

	want := renderString(t, chain, Options{})

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := Render(chain, Options{})
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = doc.JSON()
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestRender_ParallelBranchIsolation(t *testing.T) {
	par := api.NewParallel("P", api.ParallelProps{}).
		Branch(api.Start(pass("A")).MustNext(pass("B"))).
		Branch(pass("C"))

	got := renderString(t, par, Options{})
	want := `{"StartAt":"P","States":{"P":{"Type":"Parallel","Branches":[` +
		`{"StartAt":"A","States":{"A":{"Type":"Pass","Next":"B"},"B":{"Type":"Pass","End":true}}},` +
		`{"StartAt":"C","States":{"C":{"Type":"Pass","End":true}}}` +
		`],"End":true}}}`
	assert.Equal(t, want, got)
}

func TestRender_DuplicateNameInScope(t *testing.T) {
	chain := api.Start(pass("A")).MustNext(pass("A")).MustNext(succeed("Done"))

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrDuplicateName)
	assert.Equal(t, "A", ce.State)
	assert.True(t, strings.HasPrefix(err.Error(), "duplicate state name: A"), err.Error())
}

func TestRender_SameNameInDifferentScopesIsLegal(t *testing.T) {
	par := api.NewParallel("Work", api.ParallelProps{}).
		Branch(pass("Step")).
		Branch(pass("Step"))
	chain := api.Start(pass("Step")).MustNext(par)

	doc, err := Render(chain, Options{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Step", "Work"}, doc.StateNames()); diff != "" {
		t.Fatalf("unexpected top-level states (-want +got):\n%s", diff)
	}
}

func TestRender_DuplicateNameInsideBranch(t *testing.T) {
	par := api.NewParallel("P", api.ParallelProps{}).
		Branch(api.Start(pass("X")).MustNext(pass("X")))

	_, err := Render(par, Options{})
	ce := requireConfigError(t, err, api.ErrDuplicateName)
	assert.Contains(t, ce.Detail, "scope P/0")
}

func TestRender_DanglingChoiceReference(t *testing.T) {
	choice := api.NewChoice("Route", api.ChoiceProps{}).
		WhenName(api.StringEquals("$.kind", "a"), "Nowhere").
		Otherwise(succeed("Done"))

	_, err := Render(choice, Options{})
	ce := requireConfigError(t, err, api.ErrDanglingReference)
	assert.Equal(t, "Nowhere", ce.State)
	assert.Contains(t, ce.Detail, "Choices[0] of Route")
	assert.True(t, strings.HasPrefix(err.Error(), "dangling state reference: Nowhere"), err.Error())
}

func TestRender_NameReferenceResolvesInScope(t *testing.T) {
	choice := api.NewChoice("Route", api.ChoiceProps{}).
		WhenName(api.IsPresent("$.retry"), "Start").
		OtherwiseName("Done")
	chain := api.Start(pass("Init")).
		MustNext(pass("Start")).
		MustNext(choice).
		Include(succeed("Done"))

	got := renderString(t, chain, Options{})
	want := `{"StartAt":"Init","States":{` +
		`"Init":{"Type":"Pass","Next":"Start"},` +
		`"Start":{"Type":"Pass","Next":"Route"},` +
		`"Route":{"Type":"Choice","Choices":[{"Variable":"$.retry","IsPresent":true,"Next":"Start"}],"Default":"Done"},` +
		`"Done":{"Type":"Succeed"}}}`
	assert.Equal(t, want, got)
}

func TestRender_NameReferenceDoesNotCrossScopes(t *testing.T) {
	inner := pass("Inner")
	require.NoError(t, inner.NextName("Outer"))
	par := api.NewParallel("P", api.ParallelProps{}).Branch(inner)
	chain := api.Start(par).MustNext(pass("Outer"))

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrDanglingReference)
	assert.Equal(t, "Outer", ce.State)
}

func TestRender_StateSharedAcrossScopes(t *testing.T) {
	shared := pass("Shared")
	par := api.NewParallel("P", api.ParallelProps{}).Branch(shared).Branch(shared)

	_, err := Render(par, Options{})
	requireConfigError(t, err, api.ErrCrossScope)
}

func TestRender_BranchReachingTopLevelState(t *testing.T) {
	outer := succeed("Outer")
	inner := pass("Inner")
	require.NoError(t, inner.Next(outer))
	par := api.NewParallel("P", api.ParallelProps{}).Branch(inner)
	chain := api.Start(par).MustNext(outer)

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrCrossScope)
	assert.Equal(t, "Outer", ce.State)
}

func TestRender_AmbiguousStart(t *testing.T) {
	chain := api.Start(pass("A")).MustNext(succeed("Done")).Include(pass("Orphan"))

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrAmbiguousStart)
	assert.Equal(t, "Orphan", ce.State)
}

func TestRender_LoopBackToHeadHasNoStart(t *testing.T) {
	head := pass("Head")
	check := api.NewChoice("Check", api.ChoiceProps{}).
		When(api.NumericLessThan("$.n", 3), head).
		Otherwise(succeed("Done"))
	chain := api.Start(head).MustNext(check)

	_, err := Render(chain, Options{})
	requireConfigError(t, err, api.ErrAmbiguousStart)
}

func TestRender_LoopWithExitIsLegal(t *testing.T) {
	work := task("Work")
	check := api.NewChoice("Check", api.ChoiceProps{})
	chain := api.Start(pass("Init")).MustNext(work).MustNext(check)
	check.When(api.BooleanEquals("$.again", true), work).Otherwise(succeed("Done"))

	doc, err := Render(chain, Options{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Init", "Work", "Check", "Done"}, doc.StateNames()); diff != "" {
		t.Fatalf("unexpected discovery order (-want +got):\n%s", diff)
	}

	checkState, ok := doc.State("Check")
	require.True(t, ok)
	b, err := checkState.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"Type":"Choice","Choices":[{"Variable":"$.again","BooleanEquals":true,"Next":"Work"}],"Default":"Done"}`,
		string(b))
}

func TestRender_CycleWithoutTerminal(t *testing.T) {
	a := pass("A")
	b := pass("B")
	chain := api.Start(pass("Init")).MustNext(a).MustNext(b)
	require.NoError(t, b.Next(a))

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrNoTerminalPath)
	assert.Equal(t, "Init", ce.State)
}

func TestRender_CatchHandlers(t *testing.T) {
	handler := pass("Handler")
	work := task("Work").AddCatch(handler, api.CatchProps{Errors: []string{"States.Timeout"}, ResultPath: "$.err"})
	chain := api.Start(work).MustNext(succeed("Done"))

	doc, err := Render(chain, Options{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Work", "Done", "Handler"}, doc.StateNames()); diff != "" {
		t.Fatalf("unexpected discovery order (-want +got):\n%s", diff)
	}
}

func TestRender_CatchByNameNeedsInclude(t *testing.T) {
	work := task("Work").AddCatchName("Recover", api.CatchProps{})
	chain := api.Start(work).MustNext(succeed("Done"))

	_, err := Render(chain, Options{})
	requireConfigError(t, err, api.ErrDanglingReference)

	recoverState, err := api.NewFail("Recover", api.FailProps{Error: "Work.Failed", Cause: "gave up"})
	require.NoError(t, err)
	got := renderString(t, chain.Include(recoverState), Options{})
	want := `{"StartAt":"Work","States":{` +
		`"Work":{"Type":"Task","Resource":"` + arn + `","Catch":[{"ErrorEquals":["States.ALL"],"Next":"Recover"}],"Next":"Done"},` +
		`"Done":{"Type":"Succeed"},` +
		`"Recover":{"Type":"Fail","Error":"Work.Failed","Cause":"gave up","End":true}}}`
	assert.Equal(t, want, got)
}

func TestRender_MapIterator(t *testing.T) {
	m := api.NewMap("EachItem", api.MapProps{ItemsPath: "$.items", MaxConcurrency: 5}).
		Iterator(api.Start(task("Process")).MustNext(succeed("Processed")))

	got := renderString(t, m, Options{})
	want := `{"StartAt":"EachItem","States":{"EachItem":{"Type":"Map","ItemsPath":"$.items","MaxConcurrency":5,` +
		`"Iterator":{"StartAt":"Process","States":{"Process":{"Type":"Task","Resource":"` + arn + `","Next":"Processed"},"Processed":{"Type":"Succeed"}}},` +
		`"End":true}}}`
	assert.Equal(t, want, got)
}

func TestRender_NestedBranchScopes(t *testing.T) {
	inner := api.NewParallel("Inner", api.ParallelProps{}).Branch(api.Start(pass("Leaf")).MustNext(pass("Leaf")))
	outer := api.NewParallel("Outer", api.ParallelProps{}).Branch(pass("First")).Branch(inner)

	_, err := Render(outer, Options{})
	ce := requireConfigError(t, err, api.ErrDuplicateName)
	assert.Contains(t, ce.Detail, "scope Outer/1/Inner/0")
}

func TestRender_AllocatesNamesForUnnamedStates(t *testing.T) {
	chain := api.Start(pass("")).
		MustNext(pass("Pass 2")).
		MustNext(pass("")).
		MustNext(api.NewWait("", api.WaitProps{Seconds: 1})).
		MustNext(succeed(""))

	doc, err := Render(chain, Options{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Pass", "Pass 2", "Pass 3", "Wait", "Succeed"}, doc.StateNames()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Pass", doc.StartAt())
}

func TestRender_NameTooLong(t *testing.T) {
	_, err := Render(pass(strings.Repeat("x", MaxNameLength+1)), Options{})
	requireConfigError(t, err, api.ErrInvalidName)
}

func TestRender_NilHead(t *testing.T) {
	_, err := Render(nil, Options{})
	requireConfigError(t, err, api.ErrNilState)

	_, err = Render(api.Chain{}, Options{})
	requireConfigError(t, err, api.ErrNilState)
}

func TestRender_TopLevelFields(t *testing.T) {
	got := renderString(t, succeed("Done"), Options{
		Comment:        "orders",
		TimeoutSeconds: 300,
		Version:        "1.0",
	})
	assert.Equal(t,
		`{"Comment":"orders","StartAt":"Done","States":{"Done":{"Type":"Succeed"}},"TimeoutSeconds":300,"Version":"1.0"}`,
		got)
}

func TestRender_InvalidStateFieldsSurface(t *testing.T) {
	chain := api.Start(api.NewTask("NoResource", api.TaskProps{})).MustNext(succeed("Done"))

	_, err := Render(chain, Options{})
	ce := requireConfigError(t, err, api.ErrMissingResource)
	assert.Equal(t, "NoResource", ce.State)
}

func TestRender_ReportsToObserver(t *testing.T) {
	metrics := &api.BasicMetrics{}
	par := api.NewParallel("P", api.ParallelProps{}).
		Branch(api.Start(pass("A")).MustNext(pass("B"))).
		Branch(pass("C"))

	_, err := Render(par, Options{Workflow: "fan", Observer: metrics})
	require.NoError(t, err)

	_, err = Render(api.Start(pass("A")).Include(pass("Orphan")), Options{Workflow: "bad", Observer: metrics})
	require.Error(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.RendersStarted)
	assert.Equal(t, int64(1), snap.RendersCompleted)
	assert.Equal(t, int64(1), snap.RendersFailed)
	assert.Equal(t, int64(4), snap.StatesRendered)
}
