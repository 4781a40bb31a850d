package search

import (
	"errors"
	"reflect"
	"testing"

	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		p       provider.Provider
		in      string
		want    ID
		wantErr bool
	}{
		{provider.Netease, "186016", NumericID(186016), false},
		{provider.Netease, "abc", nil, true},
		{provider.Musixmatch, "84584513", NumericID(84584513), false},
		{provider.QQMusic, "102065756", KeyedID{ID: "102065756"}, false},
		{provider.QQMusic, "001Qu4I30eVFYb", KeyedID{Key: "001Qu4I30eVFYb"}, false},
		{provider.Kugou, "c3d2a71b8e4f", HashID("C3D2A71B8E4F"), false},
		{provider.SodaMusic, "7146104521380595999", StringID("7146104521380595999"), false},
		{provider.SodaMusic, "  ", nil, true},
		{provider.Provider("lrclib"), "1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.p, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ParseID(%s, %q) error = %v, want ErrInvalidID", tt.p, tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseID(%s, %q) unexpected error: %v", tt.p, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%s, %q) = %#v, want %#v", tt.p, tt.in, got, tt.want)
		}
	}
}

func TestIDString(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{NumericID(42), "42"},
		{StringID("abc"), "abc"},
		{HashID("FF00"), "FF00"},
		{KeyedID{ID: "1", Key: "mid"}, "mid"},
		{KeyedID{ID: "1"}, "1"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDecodeAndProject(t *testing.T) {
	tests := []struct {
		name string
		p    provider.Provider
		body string
		want Result
	}{
		{
			name: "Netease",
			p:    provider.Netease,
			body: `{"code":200,"result":{"songs":[{"id":186016,"name":"晴天","artists":[{"name":"周杰伦"}],"album":{"name":"叶惠美","artist":{"name":"周杰伦"}},"duration":269000}]}}`,
			want: Result{Provider: provider.Netease, Title: "晴天", Artists: []string{"周杰伦"}, Album: "叶惠美",
				AlbumArtists: []string{"周杰伦"}, DurationMs: 269000, ID: NumericID(186016)},
		},
		{
			name: "QQMusicJSONP",
			p:    provider.QQMusic,
			body: `callback({"code":0,"data":{"song":{"list":[{"songid":97773,"songmid":"0039MnYb0qxYhV","songname":"晴天","singer":[{"name":"周杰伦"}],"albumname":"叶惠美","interval":269}]}}})`,
			want: Result{Provider: provider.QQMusic, Title: "晴天", Artists: []string{"周杰伦"}, Album: "叶惠美",
				DurationMs: 269000, ID: KeyedID{ID: "97773", Key: "0039MnYb0qxYhV"}},
		},
		{
			name: "Kugou",
			p:    provider.Kugou,
			body: `{"status":1,"data":{"info":[{"hash":"ABCDEF","songname":"Song","singername":"A、B","album_name":"X","duration":200}]}}`,
			want: Result{Provider: provider.Kugou, Title: "Song", Artists: []string{"A", "B"}, Album: "X",
				DurationMs: 200000, ID: HashID("ABCDEF")},
		},
		{
			name: "Musixmatch",
			p:    provider.Musixmatch,
			body: `{"message":{"header":{"status_code":200},"body":{"track_list":[{"track":{"track_id":15445219,"track_name":"Song","artist_name":"A","album_name":"X","track_length":180}}]}}}`,
			want: Result{Provider: provider.Musixmatch, Title: "Song", Artists: []string{"A"}, Album: "X",
				DurationMs: 180000, ID: NumericID(15445219)},
		},
		{
			name: "SodaMusic",
			p:    provider.SodaMusic,
			body: `{"result_groups":[{"data":[{"entity":{"track":{"id":"7146","name":"Song","duration":200500,"artists":[{"name":"A"}],"album":{"name":"X"}}}},{"entity":{}}]}]}`,
			want: Result{Provider: provider.SodaMusic, Title: "Song", Artists: []string{"A"}, Album: "X",
				DurationMs: 200500, ID: StringID("7146")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := Decode(tt.p, []byte(tt.body))
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if len(hits) != 1 {
				t.Fatalf("expected 1 hit, got %d", len(hits))
			}
			if hits[0].Provider() != tt.p {
				t.Errorf("hit provider = %s, want %s", hits[0].Provider(), tt.p)
			}
			got := Project(hits[0])
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Project() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	hits, err := Decode(provider.Musixmatch, []byte(`{"message":{"header":{"status_code":404},"body":[]}}`))
	if err != nil || len(hits) != 0 {
		t.Errorf("expected no hits, got %v, %v", hits, err)
	}
	if _, err := Decode(provider.Netease, []byte(`<html>`)); err == nil {
		t.Error("expected error for non-json body")
	}
	if _, err := Decode(provider.Provider("lrclib"), []byte(`{}`)); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProjectMissingFields(t *testing.T) {
	r := Project(NeteaseSong{ID: 1, Name: "x"})
	if r.AlbumArtists != nil || r.DurationMs != 0 || r.Match != nil {
		t.Errorf("missing fields should stay absent: %+v", r)
	}
	if got := Project(nil); !reflect.DeepEqual(got, Result{}) {
		t.Errorf("Project(nil) = %+v", got)
	}
}

func TestRank(t *testing.T) {
	q := match.Query{Title: "Song", Artists: []string{"A"}}
	in := []Result{
		{Title: "Completely Different", Artists: []string{"B"}, ID: NumericID(1)},
		{Title: "Song", Artists: []string{"B"}, ID: NumericID(2)},
		{Title: "Songg", Artists: []string{"A"}, ID: NumericID(3)},
		{Title: "Song", Artists: []string{"A"}, ID: NumericID(4)},
		{Title: "Song", Artists: []string{"C"}, ID: NumericID(5)},
		{Title: "Sonng", Artists: []string{"B"}, ID: NumericID(6)},
	}
	ranked := Rank(q, in, match.DefaultMatcher())

	wantIDs := []ID{NumericID(4), NumericID(3), NumericID(2), NumericID(5), NumericID(6), NumericID(1)}
	wantTypes := []match.Type{match.Exact, match.FuzzyTitleArtist, match.FuzzyTitleOnly, match.FuzzyTitleOnly, match.FuzzyTitleOnly, match.None}
	if len(ranked) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d", len(wantIDs), len(ranked))
	}
	for i := range wantIDs {
		if ranked[i].ID != wantIDs[i] {
			t.Errorf("position %d id = %v, want %v", i, ranked[i].ID, wantIDs[i])
		}
		if ranked[i].Match == nil || *ranked[i].Match != wantTypes[i] {
			t.Errorf("position %d match = %v, want %s", i, ranked[i].Match, wantTypes[i])
		}
	}
	for _, r := range in {
		if r.Match != nil {
			t.Fatal("Rank modified its input")
		}
	}
}

func TestTrimJSONP(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{` MusicJsonCallback({"a":1}) `, `{"a":1}`},
		{`callback({"a":(1)});`, `{"a":(1)}`},
		{``, ``},
	}
	for _, tt := range tests {
		if got := string(TrimJSONP([]byte(tt.in))); got != tt.want {
			t.Errorf("TrimJSONP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
