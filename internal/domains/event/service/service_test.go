package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	"eventro/infras/otel/mocks"
	s3Mocks "eventro/infras/s3/mocks"
	eventMocks "eventro/internal/domains/event/mocks"
	"eventro/internal/domains/event/model"
	"eventro/internal/domains/event/model/dto"
	"eventro/internal/domains/event/service"
	userMocks "eventro/internal/domains/user/mocks"
	userModel "eventro/internal/domains/user/model"
	cacheMocks "eventro/shared/cache/mocks"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"
)

func newEventService(t *testing.T) (service.EventPackage, *eventMocks.MockEventPackage, *eventMocks.MockBookmark, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := eventMocks.NewMockEventPackage(ctrl)
	mockBookmarkRepo := eventMocks.NewMockBookmark(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookmarkRepo, mockUserRepo, mockStorage, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockBookmarkRepo, mockCache
}

func newRecommendationService(t *testing.T) (service.EventPackage, *eventMocks.MockEventPackage, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := eventMocks.NewMockEventPackage(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(
		mockRepo,
		eventMocks.NewMockBookmark(ctrl),
		mockUserRepo,
		s3Mocks.NewMockS3(ctrl),
		cfg,
		cacheMocks.NewMockRedisCache(ctrl),
		mocks.NewOtel(),
	)

	return svc, mockRepo, mockUserRepo
}

func TestEventPackageService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateEventPackageRequest
		setupMock func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateEventPackageRequest{
				PackageName:         "Gold Wedding Package",
				Category:            "Wedding",
				Price:               4500,
				PhotographyTeamSize: 3,
				DurationHours:       6,
				ExpectedAttendance:  200,
				StaffTeamSize:       10,
			},
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.CreateEventPackageRequest{
				PackageName: "Gold Wedding Package",
				Category:    "Wedding",
			},
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockCache := newEventService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventPackageService_Get(t *testing.T) {
	event := model.EventPackage{
		ID:          "event-1",
		PackageName: "Gold Wedding Package",
		Category:    "Wedding",
		Status:      model.StatusPublished,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "found on cache miss",
			id:   "event-1",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(event, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.EventPackage{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			id:   "event-1",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.EventPackage{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockCache := newEventService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, event.ID, res.ID)
				assert.Equal(t, event.PackageName, res.PackageName)
			}
		})
	}
}

func TestEventPackageService_Publish(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "publishes draft package",
			id:   "event-1",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.EventPackage{ID: "event-1", Status: model.StatusDraft}, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "rejects already published package",
			id:   "event-1",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.EventPackage{ID: "event-1", Status: model.StatusPublished}, nil)
			},
			wantErr:  true,
			wantCode: 422,
		},
		{
			name: "missing package",
			id:   "missing",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.EventPackage{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockCache := newEventService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Publish(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventPackageService_ToggleBookmark(t *testing.T) {
	req := dto.BookmarkRequest{
		UserEmail: "user@example.com",
		EventID:   "event-1",
	}

	tests := []struct {
		name           string
		setupMock      func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark)
		wantErr        bool
		wantBookmarked bool
	}{
		{
			name: "adds bookmark when absent",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				bookmarkRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				bookmarkRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr:        false,
			wantBookmarked: true,
		},
		{
			name: "removes bookmark when present",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				bookmarkRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				bookmarkRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr:        false,
			wantBookmarked: false,
		},
		{
			name: "fails when event package does not exist",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockBookmarkRepo, _ := newEventService(t)
			tt.setupMock(mockRepo, mockBookmarkRepo)

			res, err := svc.ToggleBookmark(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantBookmarked, res.Bookmarked)
				assert.Equal(t, req.EventID, res.EventID)
			}
		})
	}
}

func TestEventPackageService_GetBookmarks(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "returns bookmarked packages",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				bookmarkRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Bookmark{
						{ID: "bm-1", UserEmail: "user@example.com", EventID: "event-1"},
						{ID: "bm-2", UserEmail: "user@example.com", EventID: "event-2"},
					}, nil)
				repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.EventPackage{
						{ID: "event-1", PackageName: "Gold Wedding Package"},
						{ID: "event-2", PackageName: "Corporate Gala"},
					}, nil)
			},
			wantErr:   false,
			wantTotal: 2,
		},
		{
			name: "returns empty list without package lookup",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				bookmarkRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Bookmark{}, nil)
			},
			wantErr:   false,
			wantTotal: 0,
		},
		{
			name: "bookmark repository error",
			setupMock: func(repo *eventMocks.MockEventPackage, bookmarkRepo *eventMocks.MockBookmark) {
				bookmarkRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockBookmarkRepo, _ := newEventService(t)
			tt.setupMock(mockRepo, mockBookmarkRepo)

			res, err := svc.GetBookmarks(context.Background(), "user@example.com")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.Total)
				assert.Len(t, res.Events, tt.wantTotal)
			}
		})
	}
}

func TestEventPackageService_GetRecommendations(t *testing.T) {
	t.Run("returns packages in favorite categories", func(t *testing.T) {
		svc, mockRepo, mockUserRepo := newRecommendationService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{
				ID:                 "user-1",
				Email:              "user@example.com",
				FavoriteCategories: []string{"Wedding", "Corporate"},
			}, nil)
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.EventPackage, error) {
				assert.Equal(t, 10, params.Limit)
				assert.Len(t, filter.Filters, 1)

				return []model.EventPackage{
					{ID: "event-1", PackageName: "Gold Wedding Package", Category: "Wedding"},
					{ID: "event-2", PackageName: "Corporate Gala", Category: "Corporate"},
				}, nil
			})

		res, err := svc.GetRecommendations(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Len(t, res.Events, 2)
	})

	t.Run("user without favorites gets an empty list", func(t *testing.T) {
		svc, _, mockUserRepo := newRecommendationService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: "user-1", Email: "user@example.com"}, nil)

		res, err := svc.GetRecommendations(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Empty(t, res.Events)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, mockUserRepo := newRecommendationService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, err := svc.GetRecommendations(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("user lookup failure", func(t *testing.T) {
		svc, _, mockUserRepo := newRecommendationService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, errors.New("database error"))

		_, err := svc.GetRecommendations(context.Background(), "user-1")

		assert.Error(t, err)
	})
}

func TestEventPackageService_GetCategories(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		want      []string
	}{
		{
			name: "loads categories on cache miss",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					GetDistinctCategories(gomock.Any()).
					Return([]string{"Concert", "Wedding"}, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			want:    []string{"Concert", "Wedding"},
		},
		{
			name: "repository error",
			setupMock: func(repo *eventMocks.MockEventPackage, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					GetDistinctCategories(gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockCache := newEventService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.GetCategories(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, res.Categories)
			}
		})
	}
}
