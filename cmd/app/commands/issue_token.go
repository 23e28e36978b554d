package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cuacalab/forecast-api/internal/app"
	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/config"
)

// RunIssueToken issues a new API token for an organization. The plain token
// is printed exactly once; only its hash is stored.
func RunIssueToken(
	ctx context.Context,
	organization string,
	email string,
	capabilities []int,
	activated bool,
	format string,
) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("issuing api token",
		slog.String("organization", organization),
		slog.Bool("activated", activated),
	)

	defer closeContainer(container, logger)

	tokenUseCase, err := container.TokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token use case: %w", err)
	}

	input := &authDomain.IssueTokenInput{
		Organization: organization,
		Capabilities: toCapabilityIDs(capabilities),
		Activated:    activated,
	}
	if email != "" {
		input.Email = &email
	}

	output, err := tokenUseCase.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if format == "json" {
		outputIssueJSON(output.ID.String(), output.PlainToken, output.ExpiresAt)
	} else {
		fmt.Printf("Token ID:    %s\n", output.ID)
		fmt.Printf("Plain token: %s\n", output.PlainToken)
		if output.ExpiresAt != nil {
			fmt.Printf("Expires at:  %s\n", output.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		}
		fmt.Println("Store the plain token securely; it cannot be recovered.")
	}

	return nil
}

// toCapabilityIDs converts raw flag values to capability ids.
func toCapabilityIDs(values []int) []authDomain.CapabilityID {
	ids := make([]authDomain.CapabilityID, 0, len(values))
	for _, value := range values {
		ids = append(ids, authDomain.CapabilityID(value))
	}
	return ids
}

// outputIssueJSON outputs the issue result in JSON format.
func outputIssueJSON(id, plainToken string, expiresAt any) {
	result := map[string]any{
		"id":          id,
		"plain_token": plainToken,
		"expires_at":  expiresAt,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
