package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>HOME DEPOT #4410
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Sunbelt Rentals
<MEMO>Lift rental week 2
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>BH PHOTO 800-606-6969
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>POS PURCHASE GAFFER SUPPLY
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240118120000[0:GMT]
<TRNAMT>12.40
<FITID>CC2024011801
<NAME>CREDIT
<MEMO>Return: sandbags
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{name: "bank statement", ofxData: sampleBankOFX, expectedCount: 3},
		{name: "credit card statement", ofxData: sampleCreditCardOFX, expectedCount: 3},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := NewParser().ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, drafts, tt.expectedCount)
		})
	}
}

func TestParseFile_BankDrafts(t *testing.T) {
	parser := NewParser(WithAccountID("acct-2100"))

	drafts, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	first := drafts[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "HOME DEPOT #4410", first.Description)
	assert.True(t, decimal.RequireFromString("25.50").Equal(first.Amount), first.Amount.String())
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "2024011501", first.PayID)
	assert.Equal(t, "acct-2100", first.AccountID)
	assert.Equal(t, SourceOFX, first.Source)
	assert.Equal(t, []string{"debit"}, first.Tags)

	second := drafts[1]
	assert.Equal(t, "Sunbelt Rentals", second.Description)
	assert.Equal(t, "Lift rental week 2", second.Notes)

	check := drafts[2]
	assert.Equal(t, "1234", check.Ref)
	assert.Equal(t, []string{"check"}, check.Tags)
	assert.True(t, decimal.NewFromInt(500).Equal(check.Amount))
}

func TestParseFile_CreditCardDrafts(t *testing.T) {
	drafts, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "BH PHOTO 800-606-6969", drafts[0].Description)
	assert.Empty(t, drafts[0].AccountID)
	assert.Equal(t, "GAFFER SUPPLY", drafts[1].Description)

	refund := drafts[2]
	assert.Equal(t, "Return: sandbags", refund.Description)
	assert.Empty(t, refund.Notes)
	assert.True(t, decimal.RequireFromString("-12.40").Equal(refund.Amount), refund.Amount.String())
}

func TestPayeeName(t *testing.T) {
	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE LUMBER YARD"},
			expected: "LUMBER YARD",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE CRAFT SERVICES"},
			expected: "CRAFT SERVICES",
		},
		{
			name:     "strip authorization date",
			tx:       ofxgo.Transaction{Name: "PURCHASE AUTHORIZED ON 03/14 U-HAUL"},
			expected: "U-HAUL",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  RENTAL HOUSE  "},
			expected: "RENTAL HOUSE",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "ACH DEBIT 0042", Payee: &ofxgo.Payee{Name: "Studio City Lighting"}},
			expected: "Studio City Lighting",
		},
		{
			name:     "generic name uses memo",
			tx:       ofxgo.Transaction{Name: "PAYMENT", Memo: "Location fee"},
			expected: "Location fee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, payeeName(tt.tx))
		})
	}
}

func TestParseFile_DraftsDeduplicateByHash(t *testing.T) {
	drafts, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	again, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	assert.Equal(t, drafts[0].Hash(), again[0].Hash())
	assert.NotEqual(t, drafts[0].Hash(), drafts[1].Hash())
}

func TestAccounts(t *testing.T) {
	parser := NewParser()

	accounts, err := parser.Accounts(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.Accounts(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}

func TestPreprocess(t *testing.T) {
	in := "\n\n<SEVERITY>Info</SEVERITY>\n<CODE\n"
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<CODE>\n", preprocess(in))
}
