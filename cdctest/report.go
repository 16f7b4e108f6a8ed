// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/markkurossi/tabulate"
)

// Report collects the results of a sweep.
//
type Report struct {
	Results []Result
}

// Failed returns the number of failed configurations.
//
func (r *Report) Failed() int {
	n := 0
	for i := range r.Results {
		if !r.Results[i].Pass() {
			n++
		}
	}
	return n
}

// Print prints the report as a table, followed by the errors of failed
// configurations.
//
func (r *Report) Print(w io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Test").SetAlign(tabulate.ML)
	tab.Header("Width").SetAlign(tabulate.MR)
	tab.Header("Slots").SetAlign(tabulate.MR)
	tab.Header("Clocks").SetAlign(tabulate.ML)
	tab.Header("Iter").SetAlign(tabulate.MR)
	tab.Header("Steps").SetAlign(tabulate.MR)
	tab.Header("Sim time").SetAlign(tabulate.MR)
	tab.Header("Max occ").SetAlign(tabulate.MR)
	tab.Header("Elapsed").SetAlign(tabulate.MR)
	tab.Header("Result").SetAlign(tabulate.ML)

	var elapsed time.Duration
	for i := range r.Results {
		res := &r.Results[i]
		row := tab.Row()
		row.Column(res.Test)
		row.Column(strconv.Itoa(res.Width))
		if res.Test == TestFIFO {
			row.Column(strconv.Itoa(res.Slots))
		} else {
			row.Column("")
		}
		row.Column(res.Mode.String())
		row.Column(strconv.Itoa(res.Iterations))
		row.Column(strconv.FormatUint(uint64(res.Steps), 10))
		row.Column(fmt.Sprintf("%dns", res.SimTime))
		if res.Test == TestFIFO {
			row.Column(strconv.FormatUint(res.MaxOcc, 10))
		} else {
			row.Column("")
		}
		row.Column(res.Elapsed.Round(time.Microsecond).String())
		if res.Pass() {
			row.Column("PASS")
		} else {
			row.Column("FAIL").SetFormat(tabulate.FmtBold)
		}
		elapsed += res.Elapsed
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	for i := 0; i < 7; i++ {
		row.Column("")
	}
	row.Column(elapsed.Round(time.Microsecond).String()).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d/%d", len(r.Results)-r.Failed(), len(r.Results))).SetFormat(tabulate.FmtBold)
	tab.Print(w)

	for i := range r.Results {
		if res := &r.Results[i]; !res.Pass() {
			fmt.Fprintf(w, "%s (seed %d): %v\n", res.Name, res.Seed, res.Err)
		}
	}
}
