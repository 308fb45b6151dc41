package render

// BankAccount is one "BANK DETAILS" box on the document.
type BankAccount struct {
	AccountName string `mapstructure:"account_name" json:"accountName"`
	BankName    string `mapstructure:"bank_name" json:"bankName"`
	USDAccount  string `mapstructure:"usd_account" json:"usdAccount"`
	HKDAccount  string `mapstructure:"hkd_account" json:"hkdAccount"`
	Swift       string `mapstructure:"swift" json:"swift"`
}

// Profile holds the seller details and fixed text printed on every invoice.
type Profile struct {
	Name         string        `mapstructure:"name"`
	Address      []string      `mapstructure:"address"`
	Phone        string        `mapstructure:"phone"`
	Fax          string        `mapstructure:"fax"`
	Email        string        `mapstructure:"email"`
	Notes        []string      `mapstructure:"notes"`
	Banks        []BankAccount `mapstructure:"banks"`
	Disclaimer   []string      `mapstructure:"disclaimer"`
	Conditions   []string      `mapstructure:"conditions"`
	GoverningLaw string        `mapstructure:"governing_law"`
	ThankYou     string        `mapstructure:"thank_you"`
}

// DefaultProfile returns the Aqua Diamonds letterhead.
func DefaultProfile() Profile {
	return Profile{
		Name: "AQUA DIAMONDS LTD",
		Address: []string{
			"UNIT M2B - 3, 7/F Kaiser Estate Phase 3",
			"11 Hok Yuen Street, Hunghom",
			"Kowloon, Hong Kong",
		},
		Phone: "+85227730368",
		Fax:   "+1 201 554 4824",
		Email: "info@aquahk.com",
		Notes: []string{
			"All goods are sold & delivered in Hong Kong. Goods once sold are not returnable and refundable",
			"Aqua diamonds Ltd. reserves the right to have the final decision on all matters concerning the terms of the invoice",
		},
		Banks: []BankAccount{
			{
				AccountName: "AQUA DIAMONDS LTD",
				BankName:    "Fubon Bank (Hong Kong) Ltd",
				USDAccount:  "128-862-022-09882",
				HKDAccount:  "128-862-011-33774",
				Swift:       "IBALHKHH",
			},
			{
				AccountName: "AQUA DIAMONDS LTD",
				BankName:    "Bank of China (Hong Kong) Ltd",
				USDAccount:  "012-862-2-009086-8",
				HKDAccount:  "012-662-0-009086-7",
				Swift:       "BKCHHKHHXXX",
			},
		},
		Disclaimer: []string{
			"E. & O. E. For any polished diamonds fabricated from rough diamonds mined from January 1, 2003 onward, the seller warrants that diamonds have been purchased from legitimate sources not involved in funding conflict and in compliance with United Nations Resolutions. The seller hereby guarantees that these diamonds are conflict free, based on personal knowledge and/or written guarantees provided by the supplier of these diamonds. For any polished diamonds fabricated from rough diamonds mined prior to January 1, 2003, the seller warrants that conflict diamonds will not be knowingly sold and that, to the best of his ability, the seller will undertake reasonable measures to help prevent the sales of conflict diamonds in this country.",
			"The ownership of the goods will not pass to the purchaser and will remain with the company until payment in full of the purchase price of the goods (including sales tax therefor) owing to the company by the purchaser. Before the ownership passes to the purchaser the following conditions apply: -",
		},
		Conditions: []string{
			"The purchaser holds the goods as fiduciary Bailee and agent for the company.",
			"The purchaser must return the goods immediately upon demand of the company.",
			"If the purchaser fails to return the goods when demanded the company is entitled to go onto any premises occupied by the purchaser and to do all things necessary in order to take possession of the goods. The purchaser shall be liable for all the costs of whatsoever nature of and associated with the exercise of the company's rights under this clause, which shall be payable on demand.",
			"The goods shall be stored separately and, in a manner, to enable them to be identified and cross referenced to particular invoices.",
			"Risk in the goods shall pass at the time of delivery and the purchaser shall insure (and keep insured) the goods.",
			"Unless otherwise notified in writing the purchaser is entitled to sell the goods in the ordinary course of business. The purchaser shall be the company's agent and must hold the proceeds in a separate account on trust for the company and should not mix the proceeds with any other money, including funds of the purchaser.",
			"A breach of any of the above conditions on the part of the purchaser shall also be construed as a breach of trust.",
		},
		GoverningLaw: "This contract is governed by the laws of Hong Kong.",
		ThankYou:     "THANK YOU FOR YOUR BUSINESS",
	}
}
