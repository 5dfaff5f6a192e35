package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SheetLoader --dir ../usecase --output usecase --outpkg usecasemock --filename sheet_loader_mock.go
