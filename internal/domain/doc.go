// Package domain models the SMN (Servicio Meteorológico Nacional, CONAGUA)
// monthly climatological normals report and the annual maximum 24 h
// rainfall ranking derived from it.
//
// # Data Source
//
// Each station publishes a fixed-format text report at
//
//	https://smn.conagua.gob.mx/tools/RESOURCES/Normales_Climatologicas/Mensuales/<region>/mes<code>.txt
//
// where <region> is the short region code from [Regions] (e.g. "jal") and
// <code> is the station code zero-padded to five digits (e.g. "14066"). The
// report is a sequence of labelled sections (monthly temperature, rainfall,
// evaporation, ...) preceded by a header block with station metadata.
//
// # Report Conventions
//
// Operating status:
//
//	"SITUACIÓN            : OPERANDO"     → station active
//	"SITUACIÓN            : NO OPERANDO"  → station inactive
//	Reports without a SITUACIÓN line are treated as inactive.
//
// Maximum 24 h rainfall section:
//
//	LLUVIA MÁXIMA 24 H.
//	<column header line>
//	<unit/separator line>
//	1985  12.0  ...  45.2  AGO   9
//	1990  30.5  ...  60.0  SEP  10
//
// The table starts two lines after the heading and ends at the first blank
// line or the first line that does not start with a digit. Rows are split on
// whitespace and read from the ends: the first token is the year, the third
// from last the annual maximum (mm) and the last the number of months with
// data. Reading from the right tolerates the variable number of monthly
// columns between them.
//
// Missing values:
//
//	Months without data are printed as "NULO" or "-" in the monthly columns.
//	A row whose year, maximum or months column does not parse is skipped.
//
// # Text Encoding
//
// Reports are served either as UTF-8 or ISO-8859-1. The retrieval adapter
// decodes to UTF-8 and every label comparison here is done on NFC-normalized
// text so that "Ó" composed and decomposed forms compare equal.
package domain
