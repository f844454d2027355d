package oai

import (
	"encoding/xml"
	"fmt"

	"github.com/username/oaharvest/src/parsers/opencost"
)

// --- XML Data Structures ---

// Response is the root element of an OAI-PMH ListRecords reply.
type Response struct {
	XMLName     xml.Name    `xml:"OAI-PMH"`
	ListRecords ListRecords `xml:"ListRecords"`
	Error       *PMHError   `xml:"error"`
}

// ListRecords carries one page of records plus the token for the next page.
type ListRecords struct {
	Records         []Record `xml:"record"`
	ResumptionToken string   `xml:"resumptionToken"`
}

// PMHError is a protocol-level error reported by the repository.
type PMHError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

// Record is one harvested record. Metadata keeps both the raw payload (for
// schema validation) and the decoded openCost data element.
type Record struct {
	Header   Header   `xml:"header"`
	Metadata Metadata `xml:"metadata"`
}

// Header identifies the record within its repository. The identifier doubles
// as the stable per-article PID used by the incremental merge.
type Header struct {
	Identifier string `xml:"identifier"`
	Datestamp  string `xml:"datestamp"`
	Status     string `xml:"status,attr"`
}

// Metadata wraps the openCost payload of a record.
type Metadata struct {
	Raw  []byte         `xml:",innerxml"`
	Data *opencost.Data `xml:"data"`
}

// Deleted reports whether the repository flagged the record as deleted.
func (r Record) Deleted() bool {
	return r.Header.Status == "deleted"
}

// ParseResponse decodes one OAI-PMH ListRecords page.
func ParseResponse(content []byte) (*Response, error) {
	var resp Response
	if err := xml.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("oai parser: failed to decode XML: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("oai parser: repository reported error %s: %s", resp.Error.Code, resp.Error.Message)
	}
	return &resp, nil
}
