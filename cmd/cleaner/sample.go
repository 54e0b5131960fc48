package main

import "cleaner/pkg/records"

// sampleTable is a handful of rows in the raw shape of the customer
// insurance export: mixed-case headers, label variants, percent-suffixed
// lifetime values, composite complaint counts, gaps and one duplicate.
func sampleTable() *records.Table {
	cols := []string{
		"Customer", "ST", "GENDER", "Education", "Customer Lifetime Value",
		"Income", "Monthly Premium Auto", "Number of Open Complaints",
		"Policy Type", "Vehicle Class", "Total Claim Amount",
	}
	row := func(vals ...any) records.Record {
		r := make(records.Record, len(cols))
		for i, c := range cols {
			r[c] = vals[i]
		}
		return r
	}
	return records.NewTable(cols, []records.Record{
		row("RB50392", "Washington", nil, "Master", nil, 0.0, 1000.0, "1/0/00", "Personal Auto", "Four-Door Car", 2.704934),
		row("QZ44356", "Arizona", "F", "Bachelor", "697953.59%", 0.0, 94.0, "1/0/00", "Personal Auto", "Four-Door Car", 1131.464935),
		row("AI49188", "Nevada", "F", "Bachelor", "1288743.17%", 48767.0, 108.0, "1/0/00", "Personal Auto", "Two-Door Car", 566.472247),
		row("WW63253", "California", "M", "Bachelor", "764586.18%", 0.0, 106.0, "1/0/00", "Corporate Auto", "SUV", 529.881344),
		row("GA49547", "Washington", "M", "High School or Below", "536307.65%", 36357.0, 68.0, "1/0/00", "Personal Auto", "Four-Door Car", 17.269323),
		row("OC83172", "Oregon", "F", "Bachelor", "825629.78%", 62902.0, 69.0, "1/0/00", "Personal Auto", "Two-Door Car", 159.383042),
		row("XZ87318", "Oregon", "F", "College", "538089.86%", 55350.0, 67.0, "1/0/00", "Corporate Auto", "Four-Door Car", 321.6),
		row("CF85061", "Arizona", "M", "Master", "721610.03%", 0.0, 101.0, "1/0/00", "Corporate Auto", "Four-Door Car", 363.02968),
		row("DY87989", "Oregon", "M", "Bachelor", "2412750.40%", 14072.0, 71.0, "1/0/00", "Corporate Auto", "Four-Door Car", 511.2),
		row("BQ94931", "Oregon", "F", "College", "738817.81%", 28812.0, 93.0, "1/0/00", "Special Auto", "Four-Door Car", 425.527834),
		row("SX51350", "California", "M", "College", "473899.20%", 0.0, 67.0, "1/0/00", "Personal Auto", "Four-Door Car", 482.4),
		row("VQ65197", "Cali", "Femal", "Bachelors", "819719.97%", 100.0, 110.0, "1/2/00", "Personal Auto", "Sports Car", 528.0),
		row("DP39365", "WA", "Male", "Master", "879879.70%", 99845.0, 110.0, "1/1/00", "Corporate Auto", "Luxury SUV", 472.029737),
		row("SJ95423", "AZ", "female", "High School or Below", "881901.89%", 25965.0, 110.0, "1/0/00", "Personal Auto", "Luxury Car", 528.0),
		row(nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil),
		row("QZ44356", "Arizona", "F", "Bachelor", "697953.59%", 0.0, 94.0, "1/0/00", "Personal Auto", "Four-Door Car", 1131.464935),
	})
}
