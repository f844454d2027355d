package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/oaharvest/src/processors"
)

const pageOne = `<?xml version="1.0"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListRecords>
    <record>
      <header><identifier>oai:repo:1</identifier></header>
      <metadata>
        <data xmlns="https://opencost.de">
          <publication>
            <primary_identifier><doi>10.1000/one</doi></primary_identifier>
            <cost_data>
              <invoice>
                <dates><paid>2021-02-01</paid></dates>
                <amounts_paid>
                  <amount_paid><currency>EUR</currency><cost_type>gold-oa</cost_type><amount>1000.00</amount></amount_paid>
                </amounts_paid>
              </invoice>
            </cost_data>
          </publication>
        </data>
      </metadata>
    </record>
    <resumptionToken>next-page</resumptionToken>
  </ListRecords>
</OAI-PMH>`

const pageTwo = `<?xml version="1.0"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListRecords>
    <record>
      <header><identifier>oai:repo:2</identifier></header>
      <metadata>
        <data xmlns="https://opencost.de">
          <publication>
            <primary_identifier><doi>10.1000/two</doi></primary_identifier>
            <cost_data>
              <invoice>
                <dates><paid>2022-06-01</paid></dates>
                <amounts_paid>
                  <amount_paid><currency>EUR</currency><cost_type>hybrid-oa</cost_type><amount>2500.00</amount></amount_paid>
                </amounts_paid>
              </invoice>
            </cost_data>
          </publication>
        </data>
      </metadata>
    </record>
  </ListRecords>
</OAI-PMH>`

type noRates struct{}

func (noRates) AnnualRates(currency string) (map[string]float64, error) {
	return nil, errors.New("no rates in this test")
}

func oaiTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ListRecords", r.URL.Query().Get("verb"))
		if r.URL.Query().Get("resumptionToken") == "next-page" {
			fmt.Fprint(w, pageTwo)
			return
		}
		assert.Equal(t, "oc", r.URL.Query().Get("metadataPrefix"))
		fmt.Fprint(w, pageOne)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestHarvester() Harvester {
	reconciler := processors.NewReconciler(processors.NewConverter(noRates{}))
	return NewHarvestService(reconciler, NewWellFormedValidator(),
		5*time.Second, time.Millisecond, 5, "oaharvest-test")
}

func TestHarvestPagesThroughResumptionTokens(t *testing.T) {
	server := oaiTestServer(t)

	source := HarvestSource{BasicURL: server.URL, MetadataPrefix: "oc", Type: "opencost"}
	result, err := newTestHarvester().Harvest(context.Background(), source, HarvestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordsHarvested)
	require.Len(t, result.Publications, 2)
	assert.Equal(t, "1000.00", result.Publications[0].Euro)
	assert.Equal(t, "FALSE", result.Publications[0].IsHybrid)
	assert.Equal(t, "2500.00", result.Publications[1].Euro)
	assert.Equal(t, "TRUE", result.Publications[1].IsHybrid)
}

func TestHarvestValidateOnly(t *testing.T) {
	server := oaiTestServer(t)

	source := HarvestSource{BasicURL: server.URL, MetadataPrefix: "oc", Type: "opencost"}
	result, err := newTestHarvester().Harvest(context.Background(), source, HarvestOptions{ValidateOnly: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ValidRecords)
	assert.Equal(t, 0, result.InvalidRecords)
	assert.Empty(t, result.Publications)
}

func TestHarvestProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><error code="noRecordsMatch">empty set</error></OAI-PMH>`)
	}))
	defer server.Close()

	source := HarvestSource{BasicURL: server.URL, MetadataPrefix: "oc"}
	_, err := newTestHarvester().Harvest(context.Background(), source, HarvestOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noRecordsMatch")
}

func TestHarvestHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := HarvestSource{BasicURL: server.URL}
	_, err := newTestHarvester().Harvest(context.Background(), source, HarvestOptions{})
	assert.Error(t, err)
}

func TestLoadSourceList(t *testing.T) {
	const list = `basic_url,metadata_prefix,oai_set,processing,directory,type,active
https://repo.example.org/oai,oc,apc,'url':'https://repo.example.org/%identifier%',testrepo,opencost,TRUE
https://other.example.org/oai,oai_dc,,,other,intact,FALSE
`
	path := filepath.Join(t.TempDir(), "harvest_list.csv")
	require.NoError(t, os.WriteFile(path, []byte(list), 0o644))

	sources, err := LoadSourceList(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "https://repo.example.org/oai", sources[0].BasicURL)
	assert.Equal(t, "oc", sources[0].MetadataPrefix)
	assert.Equal(t, "apc", sources[0].OAISet)
	assert.Equal(t, "'url':'https://repo.example.org/%identifier%'", sources[0].Processing)
	assert.Equal(t, "testrepo", sources[0].Directory)
	assert.Equal(t, "opencost", sources[0].Type)
	assert.True(t, sources[0].Active)
	assert.False(t, sources[1].Active)
}

func TestWellFormedValidator(t *testing.T) {
	validator := NewWellFormedValidator()

	ok := validator.Validate([]byte(`<data xmlns="https://opencost.de"><publication/></data>`))
	assert.True(t, ok.OK)

	bad := validator.Validate([]byte(`<data><publication></data>`))
	assert.False(t, bad.OK)
	assert.NotEmpty(t, bad.Diagnostic)
}
