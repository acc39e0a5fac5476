package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/helpers"
)

func (s *Seed) CreateMembers() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, seedMember := range Members {
		member, err := s.Members.Register(ctx, dto.RegisterMemberInput{
			FirstName:     seedMember.FirstName,
			LastName:      seedMember.LastName,
			Email:         seedMember.Email,
			Phone:         seedMember.Phone,
			Wilaya:        seedMember.Wilaya,
			Baladiya:      seedMember.Baladiya,
			Country:       seedMember.Country,
			FirstJoinYear: seedMember.FirstJoinYear,
		})
		if err != nil {
			log.Fatalf("Failed to register seed member %s: %v", seedMember.Email, err)
		}
		fmt.Printf("Registered %s %s as %s\n", member.FirstName, member.LastName, member.MembershipNumber)

		if seedMember.LegacyPassword != "" {
			if err := s.migrateLegacyPassword(ctx, member.MembershipNumber, seedMember.LegacyPassword); err != nil {
				log.Fatalf("Failed to migrate legacy password for %s: %v", member.MembershipNumber, err)
			}
		}

		if seedMember.SubscriptionType != "" {
			if _, err := s.Subscriptions.Update(ctx, member.MembershipNumber, dto.UpdateSubscriptionInput{
				SubscriptionType: seedMember.SubscriptionType,
			}); err != nil {
				log.Fatalf("Failed to record subscription for %s: %v", member.MembershipNumber, err)
			}
		}
	}

	fmt.Printf("Seeded %d members.\n", len(Members))
}

// migrateLegacyPassword rewrites an imported plaintext credential as a
// bcrypt hash, the way records from the old system are carried over.
func (s *Seed) migrateLegacyPassword(ctx context.Context, membershipNumber, plaintext string) error {
	hash, err := helpers.HashPassword(plaintext)
	if err != nil {
		return err
	}

	_, err = s.DB.DB.ExecContext(ctx,
		`UPDATE members SET password = $1 WHERE membership_number = $2`,
		hash, membershipNumber,
	)
	return err
}
