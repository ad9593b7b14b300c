package checkout

import "giveflow/pkg/payment"

// SquareFactory builds the hosted-tokenizer SDK for each default channel.
// Bank debit gets the context-bound variant; everything else shares the
// plain hosted-fields flow.
func SquareFactory(baseURL, appID, locationID string) SDKFactory {
	return func(channelID string) payment.SDK {
		if channelID == ChannelBankDebit {
			return payment.NewACHDebitSDK(baseURL, appID, locationID)
		}
		return payment.NewHostedFieldsSDK(baseURL, appID, locationID, channelID)
	}
}

// StubFactory tokenizes everything instantly; for development and demos.
func StubFactory() SDKFactory {
	return func(channelID string) payment.SDK {
		return &payment.StubSDK{Channel: channelID}
	}
}
