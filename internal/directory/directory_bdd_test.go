// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
)

var _ = Describe("Directory service", func() {
	var (
		ctx context.Context
		svc *directory.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		store := directory.NewMemoryStore()
		var err error
		svc, err = directory.NewService(store, store, credential.NewSHA256Hasher())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("a returning visitor", func() {
		var user *directory.User

		BeforeEach(func() {
			var err error
			user, err = svc.RegisterUser(ctx, "Alex", "alex@example.com", "s3cret")
			Expect(err).NotTo(HaveOccurred())
		})

		It("signs in with the registered password", func() {
			signedIn, err := svc.Authenticate(ctx, "alex@example.com", "s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(signedIn.ID).To(Equal(user.ID))
		})

		It("gets the same message for a typo in either field", func() {
			_, badPassword := svc.Authenticate(ctx, "alex@example.com", "s3cre")
			_, badEmail := svc.Authenticate(ctx, "alx@example.com", "s3cret")

			Expect(badPassword).To(MatchError(directory.ErrAuthenticationFailed))
			Expect(badEmail).To(MatchError(directory.ErrAuthenticationFailed))
			Expect(directory.PublicMessage(badPassword)).To(Equal(directory.PublicMessage(badEmail)))
		})

		It("builds a history of support interactions", func() {
			Expect(svc.LogInteraction(ctx, user.ID, "breathing", "4-7-8")).To(Succeed())
			Expect(svc.LogInteraction(ctx, user.ID, "hotline", "")).To(Succeed())

			stored, err := svc.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			types := make([]string, 0)
			for _, entry := range stored.Interactions() {
				types = append(types, entry.Type)
			}
			Expect(types).To(Equal([]string{"breathing", "hotline"}))
		})
	})

	Describe("browsing resources", func() {
		BeforeEach(func() {
			link := "some_link"
			_, err := svc.AddResource(ctx, "Calm Breathing Exercise", "A guided breathing exercise", "Coping Strategies", &link)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddResource(ctx, "National Suicide Prevention Lifeline", "Call or text 988", "Hotlines", nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists a category", func() {
			hotlines, err := svc.ResourcesByCategory(ctx, "Hotlines")
			Expect(err).NotTo(HaveOccurred())
			Expect(hotlines).To(HaveLen(1))
			Expect(hotlines[0].HasLink()).To(BeFalse())
		})

		It("lists every category once", func() {
			Expect(svc.Categories(ctx)).To(Equal([]string{"Coping Strategies", "Hotlines"}))
		})

		It("finds nothing in an unknown category", func() {
			Expect(svc.ResourcesByCategory(ctx, "Podcasts")).To(BeEmpty())
		})
	})
})
