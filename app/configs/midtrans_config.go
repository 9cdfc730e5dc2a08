package configs

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

func (e ENV) MidtransEnvironment() midtrans.EnvironmentType {
	if e.MidtransEnv == "production" {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

func NewMidtransCoreAPIClient(env ENV) *coreapi.Client {
	var client coreapi.Client
	client.New(env.MidtransServerKey, env.MidtransEnvironment())
	return &client
}
