package csvtrim

import (
	"bytes"
	stdcsv "encoding/csv"
	"io"
	"strings"
	"testing"
)

func benchmarkData() []byte {
	buf := []byte(strings.Repeat(`  1001 , Hardware , Stainless steel bolts for structural framing work and general purpose fixing , 2024-01-15
1002,Office,Recycled paper sheets in a pack of five hundred,2024-02-03
1003 ;broken line without enough fields
1004,Kitchen,Cast iron skillet with pre-seasoned cooking surface and a long handle for oven use,2024-03-08
`, 64))
	return buf
}

func BenchmarkReader(b *testing.B) {
	data := benchmarkData()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		cr := NewReader(bytes.NewReader(data))
		cr.ReuseRecord = true

		for {
			if _, err := cr.Read(); err != nil {
				if err == io.EOF {
					break
				}
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkEncodingCSV(b *testing.B) {
	data := benchmarkData()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		cr := stdcsv.NewReader(bytes.NewReader(data))
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		for {
			if _, err := cr.Read(); err != nil {
				if err == io.EOF {
					break
				}
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkCopyRows(b *testing.B) {
	data := benchmarkData()
	job := Job{MaxDescriptionLength: 30, Delimiter: ","}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := job.copyRows(bytes.NewReader(data), io.Discard, discardLogger); err != nil {
			b.Fatal(err)
		}
	}
}
