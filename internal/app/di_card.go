package app

import (
	"context"
	"fmt"

	cardHTTP "github.com/allisson/cardvault/internal/card/http"
	cardRepository "github.com/allisson/cardvault/internal/card/repository"
	cardService "github.com/allisson/cardvault/internal/card/service"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// CardCipher returns the card number cipher keyed from CARD_ENCRYPTION_SECRET,
// unwrapped through KMS_KEY_URI when one is configured.
func (c *Container) CardCipher(ctx context.Context) (cryptoService.CardCipher, error) {
	var err error
	c.cardCipherInit.Do(func() {
		c.cardCipher, err = c.initCardCipher(ctx)
		if err != nil {
			c.initErrors["cardCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardCipher"]; exists {
		return nil, storedErr
	}
	return c.cardCipher, nil
}

// LockManager returns the process-wide card lock manager.
func (c *Container) LockManager() *cardService.LockManager {
	c.lockManagerInit.Do(func() {
		c.lockManager = cardService.NewLockManager(c.config.CardLockTimeout)
	})
	return c.lockManager
}

// CardRepository returns the card repository based on database driver.
func (c *Container) CardRepository() (cardUseCase.CardRepository, error) {
	var err error
	c.cardRepositoryInit.Do(func() {
		c.cardRepository, err = c.initCardRepository()
		if err != nil {
			c.initErrors["cardRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardRepository"]; exists {
		return nil, storedErr
	}
	return c.cardRepository, nil
}

// TransferRepository returns the transfer log repository based on database driver.
func (c *Container) TransferRepository() (cardUseCase.TransferRepository, error) {
	var err error
	c.transferRepositoryInit.Do(func() {
		c.transferRepository, err = c.initTransferRepository()
		if err != nil {
			c.initErrors["transferRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transferRepository"]; exists {
		return nil, storedErr
	}
	return c.transferRepository, nil
}

// CardUseCase returns the card use case wrapped with metrics.
func (c *Container) CardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	var err error
	c.cardUseCaseInit.Do(func() {
		c.cardUseCase, err = c.initCardUseCase(ctx)
		if err != nil {
			c.initErrors["cardUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardUseCase"]; exists {
		return nil, storedErr
	}
	return c.cardUseCase, nil
}

// TransferUseCase returns the transfer use case wrapped with metrics.
func (c *Container) TransferUseCase() (cardUseCase.TransferUseCase, error) {
	var err error
	c.transferUseCaseInit.Do(func() {
		c.transferUseCase, err = c.initTransferUseCase()
		if err != nil {
			c.initErrors["transferUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transferUseCase"]; exists {
		return nil, storedErr
	}
	return c.transferUseCase, nil
}

// ExpirySweeper returns the scheduled expiry sweeper.
func (c *Container) ExpirySweeper(ctx context.Context) (*cardUseCase.ExpirySweeper, error) {
	var err error
	c.expirySweeperInit.Do(func() {
		c.expirySweeper, err = c.initExpirySweeper(ctx)
		if err != nil {
			c.initErrors["expirySweeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["expirySweeper"]; exists {
		return nil, storedErr
	}
	return c.expirySweeper, nil
}

// CardHandler returns the HTTP handler for card operations.
func (c *Container) CardHandler(ctx context.Context) (*cardHTTP.CardHandler, error) {
	var err error
	c.cardHandlerInit.Do(func() {
		var useCase cardUseCase.CardUseCase
		useCase, err = c.CardUseCase(ctx)
		if err != nil {
			c.initErrors["cardHandler"] = err
			return
		}
		c.cardHandler = cardHTTP.NewCardHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardHandler"]; exists {
		return nil, storedErr
	}
	return c.cardHandler, nil
}

// TransferHandler returns the HTTP handler for transfers.
func (c *Container) TransferHandler() (*cardHTTP.TransferHandler, error) {
	var err error
	c.transferHandlerInit.Do(func() {
		var useCase cardUseCase.TransferUseCase
		useCase, err = c.TransferUseCase()
		if err != nil {
			c.initErrors["transferHandler"] = err
			return
		}
		c.transferHandler = cardHTTP.NewTransferHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transferHandler"]; exists {
		return nil, storedErr
	}
	return c.transferHandler, nil
}

func (c *Container) initCardCipher(ctx context.Context) (cryptoService.CardCipher, error) {
	secret, err := cryptoService.ResolveCardSecret(
		ctx,
		c.KMSService(),
		c.config.KMSKeyURI,
		c.config.CardEncryptionSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve card encryption secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	cipher, err := cryptoService.NewCardCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create card cipher: %w", err)
	}
	return cipher, nil
}

func (c *Container) initCardRepository() (cardUseCase.CardRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for card repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return cardRepository.NewMySQLCardRepository(db), nil
	case "postgres":
		return cardRepository.NewPostgreSQLCardRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTransferRepository() (cardUseCase.TransferRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for transfer repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return cardRepository.NewMySQLTransferRepository(db), nil
	case "postgres":
		return cardRepository.NewPostgreSQLTransferRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for card use case: %w", err)
	}
	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for card use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for card use case: %w", err)
	}
	cipher, err := c.CardCipher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get card cipher for card use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for card use case: %w", err)
	}

	useCase := cardUseCase.NewCardUseCase(txManager, cardRepo, userRepo, cipher, c.LockManager())
	return cardUseCase.NewCardUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initTransferUseCase() (cardUseCase.TransferUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for transfer use case: %w", err)
	}
	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for transfer use case: %w", err)
	}
	transferRepo, err := c.TransferRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer repository for transfer use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for transfer use case: %w", err)
	}

	useCase := cardUseCase.NewTransferUseCase(txManager, cardRepo, transferRepo, c.LockManager())
	return cardUseCase.NewTransferUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initExpirySweeper(ctx context.Context) (*cardUseCase.ExpirySweeper, error) {
	cards, err := c.CardUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get card use case for expiry sweeper: %w", err)
	}
	return cardUseCase.NewExpirySweeper(c.config.ExpirySweepSchedule, cards, c.Logger())
}
