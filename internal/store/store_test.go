package store

import "context"

// fakeAPI is an in-memory RowAPI. Tabs behave like the live sheet: row 1 is
// the header, appends grow the tab, updates overwrite in place.
type fakeAPI struct {
	tabs map[string][][]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{tabs: map[string][][]string{}}
}

func (f *fakeAPI) seed(sheet string, rows [][]string) {
	f.tabs[sheet] = rows
}

func (f *fakeAPI) ReadAll(_ context.Context, sheet string) ([][]string, error) {
	return f.tabs[sheet], nil
}

func (f *fakeAPI) AppendRow(_ context.Context, sheet string, row []string) error {
	f.tabs[sheet] = append(f.tabs[sheet], row)
	return nil
}

func (f *fakeAPI) UpdateRow(_ context.Context, sheet string, rowIndex1 int, row []string) error {
	for len(f.tabs[sheet]) < rowIndex1 {
		f.tabs[sheet] = append(f.tabs[sheet], nil)
	}
	f.tabs[sheet][rowIndex1-1] = row
	return nil
}

func (f *fakeAPI) EnsureSheet(_ context.Context, sheet string, header []string) error {
	if _, ok := f.tabs[sheet]; !ok {
		f.tabs[sheet] = [][]string{header}
	}
	return nil
}
