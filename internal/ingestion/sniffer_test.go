package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniff(t *testing.T) {
	cases := []struct {
		name   string
		sample string
		want   rune
	}{
		{
			name:   "semicolon with decimal commas",
			sample: "CNPJ;LATITUDE;LONGITUDE;TKT MED\n1;-23,55;-46,63;150,00\n2;-22,90;-43,17;0\n",
			want:   ';',
		},
		{
			name:   "comma only",
			sample: "CNPJ,LATITUDE,LONGITUDE\n1,-23.55,-46.63\n2,-22.90,-43.17\n",
			want:   ',',
		},
		{
			name:   "quoted commas do not count",
			sample: "A,B,C\n\"1,5\",2,3\n\"4,5\",6,7\n",
			want:   ',',
		},
		{name: "empty", sample: "", want: ';'},
		{name: "blank lines", sample: "\n\n  \n", want: ';'},
		{name: "no candidate", sample: "just one column\nvalue\n", want: ';'},
		{name: "ambiguous single line", sample: "A;B,C", want: ';'},
		{name: "both inconsistent", sample: "A;B,C\n1;2;3,4,5\n1,2\n", want: ';'},
		{name: "crlf semicolon", sample: "A;B\r\n1;2\r\n", want: ';'},
		{name: "bom is ignored", sample: "\xef\xbb\xbfA;B\n1;2\n", want: ';'},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, string(tc.want), string(Sniff([]byte(tc.sample), false)))
		})
	}
}

func TestSniff_TruncatedSampleIgnoresPartialLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("A;B;C\n")
	for b.Len() < DefaultSampleSize {
		b.WriteString("1,0;2,0;3,0\n")
	}
	// cut mid-line, the partial tail has a different separator count
	s := b.String()[:DefaultSampleSize]
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
	}
	assert.Equal(t, ";", string(Sniff([]byte(s), true)))
}

func TestSniff_CompleteSampleKeepsLastLine(t *testing.T) {
	// without the truncation flag the short last line counts against ','
	s := "A,B,C\n1,2,3\n4,5"
	assert.Equal(t, ";", string(Sniff([]byte(s), false)))
	assert.Equal(t, ",", string(Sniff([]byte(s), true)))
}

func TestSniff_MostlyConsistent(t *testing.T) {
	var b strings.Builder
	b.WriteString("A;B;C\n")
	for i := 0; i < 20; i++ {
		b.WriteString("x;y;z\n")
	}
	b.WriteString("broken;row\n")
	assert.Equal(t, ";", string(Sniff([]byte(b.String()), false)))
}
