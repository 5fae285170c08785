package fmi

import (
	"encoding/xml"
)

// featureCollection is the root element of an FMI WFS multipointcoverage
// response. Only the parts the bridge reads are mapped.
type featureCollection struct {
	XMLName        xml.Name        `xml:"FeatureCollection"`
	NumberReturned string          `xml:"numberReturned,attr"`
	Members        []featureMember `xml:"member"`
}

type featureMember struct {
	GridSeriesObservation gridSeriesObservation `xml:"GridSeriesObservation"`
}

type gridSeriesObservation struct {
	Result observationResult `xml:"result"`
}

type observationResult struct {
	MultiPointCoverage multiPointCoverage `xml:"MultiPointCoverage"`
}

// multiPointCoverage pairs a flat positions list (lat lon epoch triplets)
// with a flat values list, one value per rangeType field per position.
type multiPointCoverage struct {
	DomainSet domainSet `xml:"domainSet"`
	RangeSet  rangeSet  `xml:"rangeSet"`
	RangeType rangeType `xml:"rangeType"`
}

type domainSet struct {
	SimpleMultiPoint simpleMultiPoint `xml:"SimpleMultiPoint"`
}

type simpleMultiPoint struct {
	SrsName   string `xml:"srsName,attr"`
	Positions string `xml:"positions"`
}

type rangeSet struct {
	DataBlock dataBlock `xml:"DataBlock"`
}

type dataBlock struct {
	DoubleOrNilReasonTupleList string `xml:"doubleOrNilReasonTupleList"`
}

type rangeType struct {
	DataRecord dataRecord `xml:"DataRecord"`
}

type dataRecord struct {
	Fields []field `xml:"field"`
}

type field struct {
	Name string `xml:"name,attr"`
	Href string `xml:"href,attr"`
}

// exceptionReport is the OWS error document FMI serves on bad requests.
type exceptionReport struct {
	XMLName    xml.Name       `xml:"ExceptionReport"`
	Exceptions []owsException `xml:"Exception"`
}

type owsException struct {
	ExceptionCode string   `xml:"exceptionCode,attr"`
	ExceptionText []string `xml:"ExceptionText"`
}
