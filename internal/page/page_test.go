package page

import (
	"context"
	"testing"

	"tourdesk/internal/api"
	"tourdesk/internal/deleteflow"
	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/gt"
)

type fakeBackend struct {
	records   []model.Record
	listErr   error
	deleteErr error
	deletes   []string
	creates   int
}

func (f *fakeBackend) List(ctx context.Context, resource string) ([]model.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeBackend) Create(ctx context.Context, resource string, payload model.Record) (model.Record, error) {
	f.creates++
	out := payload.Clone()
	out["_id"] = "new"
	out["createdAt"] = "2024-01-01T00:00:00Z"
	return out, nil
}

func (f *fakeBackend) Update(ctx context.Context, resource, id string, payload model.Record) (model.Record, error) {
	out := payload.Clone()
	out["_id"] = id
	return out, nil
}

func (f *fakeBackend) Delete(ctx context.Context, resource, id string) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func names(recs []model.Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.String("name"))
	}
	return out
}

func TestLoad_ResetsStateAndSetsRecords(t *testing.T) {
	b := &fakeBackend{records: []model.Record{{"_id": "1", "name": "Bo"}, {"_id": "2", "name": "Amy"}}}
	p := New(entity.Customers, b, nil)
	p.List.SetQuery("zzz")

	gt.NoError(t, p.Load(context.Background())).Required()
	gt.Value(t, p.List.State().Query).Equal("")
	gt.Value(t, names(p.List.View())).Equal([]string{"Amy", "Bo"})
	gt.Bool(t, p.Loading).False()
}

func TestLoad_FailureSetsPageError(t *testing.T) {
	b := &fakeBackend{listErr: &api.Error{Op: "list", Status: 500}}
	p := New(entity.Customers, b, nil)
	gt.Value(t, p.Load(context.Background())).NotNil()
	gt.Value(t, p.Err).Equal("Failed to load records")
}

func TestDeleteScenario(t *testing.T) {
	b := &fakeBackend{records: []model.Record{{"_id": "1", "name": "Amy"}, {"_id": "2", "name": "Bo"}}}
	p := New(entity.Customers, b, nil)
	gt.NoError(t, p.Load(context.Background())).Required()

	amy, _ := p.List.Find("1")
	gt.NoError(t, p.Delete.Begin(amy)).Required()
	gt.NoError(t, p.ConfirmDelete(context.Background())).Required()

	want := []model.Record{{"_id": "2", "name": "Bo"}}
	if diff := cmp.Diff(want, p.List.View()); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
	gt.Value(t, p.Delete.State()).Equal(deleteflow.Idle)
	gt.Value(t, b.deletes).Equal([]string{"1"})
}

func TestDeleteFailure_KeepsRecordAndSurfacesMessage(t *testing.T) {
	b := &fakeBackend{
		records:   []model.Record{{"_id": "1", "name": "Amy"}},
		deleteErr: &api.Error{Op: "delete", Status: 409, Message: "Customer has packages"},
	}
	p := New(entity.Customers, b, nil)
	_ = p.Load(context.Background())
	amy, _ := p.List.Find("1")
	_ = p.Delete.Begin(amy)

	gt.Value(t, p.ConfirmDelete(context.Background())).NotNil()
	gt.Value(t, p.Err).Equal("Customer has packages")
	gt.Value(t, p.List.Len()).Equal(1)
	gt.Value(t, p.Delete.State()).Equal(deleteflow.Idle)
}

func TestCreateRoundTrip(t *testing.T) {
	b := &fakeBackend{records: []model.Record{{"_id": "1", "name": "Amy"}, {"_id": "2", "name": "Cy"}}}
	p := New(entity.Customers, b, nil)
	_ = p.Load(context.Background())

	f := p.NewForm(nil)
	f.Set("name", "Bo")
	rec, err := f.Submit(context.Background())
	gt.NoError(t, err).Required()
	p.ApplySaved(rec)

	gt.Value(t, names(p.List.View())).Equal([]string{"Amy", "Bo", "Cy"})
	gt.Value(t, b.creates).Equal(1)
	found, ok := p.List.Find("new")
	gt.Bool(t, ok).True()
	gt.Value(t, found.String("createdAt")).Equal("2024-01-01T00:00:00Z")
}

func TestEditReplacesWholesale(t *testing.T) {
	b := &fakeBackend{records: []model.Record{{"_id": "1", "name": "Amy", "city": "Pune"}}}
	p := New(entity.Customers, b, nil)
	_ = p.Load(context.Background())
	existing, _ := p.List.Find("1")

	f := p.NewForm(existing)
	f.Set("name", "Amy Stone")
	rec, err := f.Submit(context.Background())
	gt.NoError(t, err).Required()
	p.ApplySaved(rec)

	gt.Value(t, p.List.Len()).Equal(1)
	got, _ := p.List.Find("1")
	gt.Value(t, got.String("name")).Equal("Amy Stone")
	gt.Value(t, got.String("city")).Equal("Pune")
}

func TestDetail(t *testing.T) {
	b := &fakeBackend{records: []model.Record{{"_id": "1", "name": "Amy", "email": "amy@example.com"}}}
	p := New(entity.Customers, b, nil)
	_ = p.Load(context.Background())

	lines, ok := p.Detail(detail.New(detail.DefaultOptions()), "1")
	gt.Bool(t, ok).True()
	gt.Value(t, lines[0].Value).Equal("Amy")
	gt.Value(t, lines[2].Value).Equal(detail.NA)

	_, ok = p.Detail(detail.New(detail.DefaultOptions()), "missing")
	gt.Bool(t, ok).False()
}
